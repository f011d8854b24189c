package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"talenthub/internal/domain"
)

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) domain.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company := &domain.Company{}
	query := `
        SELECT id, name, description, website, location, industry, logo_url, created_at, updated_at
        FROM companies WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Description,
		&company.Website,
		&company.Location,
		&company.Industry,
		&company.LogoURL,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepository) IsMember(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM company_members WHERE user_id = $1 AND company_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company membership: %w", err)
	}
	return exists, nil
}

func (r *companyRepository) CompanyIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT company_id FROM company_members WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query company memberships: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
