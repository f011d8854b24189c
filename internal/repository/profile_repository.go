package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talenthub/internal/domain"
)

type profileRepository struct {
	db *sql.DB
}

func NewCandidateProfileRepository(db *sql.DB) domain.CandidateProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	profile := &domain.CandidateProfile{}
	query := `
        SELECT user_id, phone, location, resume_url, linkedin_url, github_url, portfolio_url, updated_at
        FROM candidate_profiles WHERE user_id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Phone, &profile.Location, &profile.ResumeURL,
		&profile.LinkedInURL, &profile.GithubURL, &profile.PortfolioURL, &profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT skill FROM candidate_skills WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("query candidate skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("scan candidate skill: %w", err)
		}
		profile.Skills = append(profile.Skills, skill)
	}
	return profile, rows.Err()
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.CandidateProfile) error {
	query := `
        INSERT INTO candidate_profiles (user_id, phone, location, resume_url, linkedin_url, github_url, portfolio_url, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            phone = EXCLUDED.phone,
            location = EXCLUDED.location,
            resume_url = EXCLUDED.resume_url,
            linkedin_url = EXCLUDED.linkedin_url,
            github_url = EXCLUDED.github_url,
            portfolio_url = EXCLUDED.portfolio_url,
            updated_at = EXCLUDED.updated_at`

	profile.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Phone, profile.Location, profile.ResumeURL,
		profile.LinkedInURL, profile.GithubURL, profile.PortfolioURL, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return r.ReplaceSkills(ctx, profile.UserID, profile.Skills)
}

func (r *profileRepository) SetResumeURL(ctx context.Context, userID uuid.UUID, resumeURL string) error {
	query := `
        INSERT INTO candidate_profiles (user_id, resume_url, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET resume_url = EXCLUDED.resume_url, updated_at = now()`

	_, err := r.db.ExecContext(ctx, query, userID, resumeURL)
	if err != nil {
		return fmt.Errorf("set resume url: %w", err)
	}
	return nil
}

func (r *profileRepository) UpdateLinks(ctx context.Context, userID uuid.UUID, links domain.ProfileLinks) error {
	query := `
        INSERT INTO candidate_profiles (user_id, linkedin_url, github_url, portfolio_url, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (user_id) DO UPDATE SET
            linkedin_url = CASE WHEN EXCLUDED.linkedin_url <> '' THEN EXCLUDED.linkedin_url ELSE candidate_profiles.linkedin_url END,
            github_url = CASE WHEN EXCLUDED.github_url <> '' THEN EXCLUDED.github_url ELSE candidate_profiles.github_url END,
            portfolio_url = CASE WHEN EXCLUDED.portfolio_url <> '' THEN EXCLUDED.portfolio_url ELSE candidate_profiles.portfolio_url END,
            updated_at = now()`

	_, err := r.db.ExecContext(ctx, query, userID, links.LinkedIn, links.Github, links.Portfolio)
	if err != nil {
		return fmt.Errorf("update profile links: %w", err)
	}
	return nil
}

func (r *profileRepository) ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin skills tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_skills WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear candidate skills: %w", err)
	}
	for i, skill := range skills {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO candidate_skills (user_id, position, skill) VALUES ($1, $2, $3)`,
			userID, i, skill)
		if err != nil {
			return fmt.Errorf("insert candidate skill: %w", err)
		}
	}
	return tx.Commit()
}
