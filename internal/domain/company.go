package domain

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Website     string    `json:"website" db:"website"`
	Location    string    `json:"location" db:"location"`
	Industry    string    `json:"industry" db:"industry"`
	LogoURL     string    `json:"logo_url" db:"logo_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CompanyMembership links a user to a company. It is the sole source of
// multi-tenant scoping: every employer-side operation checks for a row here.
type CompanyMembership struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
