package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Authorization decisions switch on
// this type rather than comparing raw strings.
type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleJobseeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// CanManageCompany reports whether the role may act on behalf of a company,
// subject to a membership check.
func (r Role) CanManageCompany() bool {
	return r == RoleEmployer || r == RoleAdmin
}

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Role           Role      `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Identity is the resolved caller attached to each authenticated request.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
}

// Session lives in redis for the lifetime of the refresh token. The role is
// denormalized into the session so the auth middleware resolves an Identity
// without a database roundtrip.
type Session struct {
	ID           string    `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Role         Role      `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
}

type AuthResult struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}
