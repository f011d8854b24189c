package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"talenthub/internal/domain"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, job_id, user_id, status, match_score, resume_url, cover_letter, applied_date`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
        INSERT INTO applications (` + applicationColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.JobID, app.UserID, app.Status, app.MatchScore,
		app.ResumeURL, app.CoverLetter, app.AppliedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.getOne(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
}

func (r *applicationRepository) GetByJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (*domain.Application, error) {
	return r.getOne(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND user_id = $2`,
		jobID, userID)
}

func (r *applicationRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	app := &domain.Application{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&app.ID, &app.JobID, &app.UserID, &app.Status, &app.MatchScore,
		&app.ResumeURL, &app.CoverLetter, &app.AppliedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return checkRowsAffected(result, "update application status")
}

func (r *applicationRepository) List(ctx context.Context, scope domain.ApplicationScope, filter *domain.ApplicationFilter) ([]*domain.ApplicationListItem, int, error) {
	where, args := buildApplicationFilter(scope, filter)

	var total int
	countQuery := `
        SELECT count(*)
        FROM applications a
        JOIN jobs j ON j.id = a.job_id ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	offset := filter.Offset()
	query := fmt.Sprintf(`
        SELECT a.id, a.job_id, j.title, j.company_id, c.name, j.location, j.job_type,
               a.user_id, u.name, u.email, a.status, a.match_score, a.applied_date
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        JOIN companies c ON c.id = j.company_id
        JOIN users u ON u.id = a.user_id
        %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, applicationOrderClause(filter.SortBy), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.ApplicationListItem, 0)
	for rows.Next() {
		item := &domain.ApplicationListItem{}
		err := rows.Scan(
			&item.ID, &item.JobID, &item.JobTitle, &item.CompanyID, &item.CompanyName,
			&item.Location, &item.JobType, &item.CandidateID, &item.CandidateName,
			&item.CandidateEmail, &item.Status, &item.MatchScore, &item.AppliedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan application row: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func buildApplicationFilter(scope domain.ApplicationScope, filter *domain.ApplicationFilter) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if scope.UserID != uuid.Nil {
		add("a.user_id = $%d", scope.UserID)
	} else {
		add("j.company_id = ANY($%d)", pq.Array(scope.CompanyIDs))
	}
	if filter.Status != "" {
		add("a.status = $%d", filter.Status)
	}
	if filter.JobID != uuid.Nil {
		add("a.job_id = $%d", filter.JobID)
	}
	if filter.MinScore > 0 {
		add("a.match_score >= $%d", filter.MinScore)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func applicationOrderClause(sortBy string) string {
	switch sortBy {
	case "oldest":
		return "a.applied_date ASC"
	case "match-high":
		return "a.match_score DESC"
	case "match-low":
		return "a.match_score ASC"
	default:
		return "a.applied_date DESC"
	}
}

func (r *applicationRepository) AnalyticsRows(ctx context.Context, scope domain.ApplicationScope, jobID uuid.UUID, since time.Time) ([]domain.AnalyticsRow, error) {
	conditions := []string{"a.applied_date >= $1"}
	args := []any{since}

	if scope.UserID != uuid.Nil {
		args = append(args, scope.UserID)
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", len(args)))
	} else {
		args = append(args, pq.Array(scope.CompanyIDs))
		conditions = append(conditions, fmt.Sprintf("j.company_id = ANY($%d)", len(args)))
	}
	if jobID != uuid.Nil {
		args = append(args, jobID)
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", len(args)))
	}

	query := `
        SELECT a.status, a.match_score, a.applied_date
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        WHERE ` + strings.Join(conditions, " AND ")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics rows: %w", err)
	}
	defer rows.Close()

	var out []domain.AnalyticsRow
	for rows.Next() {
		var row domain.AnalyticsRow
		if err := rows.Scan(&row.Status, &row.MatchScore, &row.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan analytics row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *applicationRepository) InsertAnswers(ctx context.Context, applicationID uuid.UUID, answers map[string]string) error {
	if len(answers) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin answers tx: %w", err)
	}
	defer tx.Rollback()

	for question, answer := range answers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO application_answers (application_id, question, answer) VALUES ($1, $2, $3)
             ON CONFLICT (application_id, question) DO UPDATE SET answer = EXCLUDED.answer`,
			applicationID, question, answer)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}
	return tx.Commit()
}

func (r *applicationRepository) InsertSkills(ctx context.Context, applicationID uuid.UUID, partition domain.SkillPartition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin skills tx: %w", err)
	}
	defer tx.Rollback()

	insert := func(skills []string, matchType domain.SkillMatchType) error {
		for _, skill := range skills {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO application_skills (application_id, skill, match_type) VALUES ($1, $2, $3)
                 ON CONFLICT DO NOTHING`,
				applicationID, skill, matchType)
			if err != nil {
				return fmt.Errorf("insert application skill: %w", err)
			}
		}
		return nil
	}

	if err := insert(partition.Matched, domain.SkillMatched); err != nil {
		return err
	}
	if err := insert(partition.Missing, domain.SkillMissing); err != nil {
		return err
	}
	if err := insert(partition.Additional, domain.SkillAdditional); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *applicationRepository) GetSkills(ctx context.Context, applicationID uuid.UUID) (*domain.SkillPartition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill, match_type FROM application_skills WHERE application_id = $1 ORDER BY skill`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("query application skills: %w", err)
	}
	defer rows.Close()

	partition := &domain.SkillPartition{}
	found := false
	for rows.Next() {
		var skill string
		var matchType domain.SkillMatchType
		if err := rows.Scan(&skill, &matchType); err != nil {
			return nil, fmt.Errorf("scan application skill: %w", err)
		}
		found = true
		switch matchType {
		case domain.SkillMatched:
			partition.Matched = append(partition.Matched, skill)
		case domain.SkillMissing:
			partition.Missing = append(partition.Missing, skill)
		case domain.SkillAdditional:
			partition.Additional = append(partition.Additional, skill)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return partition, nil
}

func (r *applicationRepository) GetAnswers(ctx context.Context, applicationID uuid.UUID) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT question, answer FROM application_answers WHERE application_id = $1`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("query application answers: %w", err)
	}
	defer rows.Close()

	answers := make(map[string]string)
	for rows.Next() {
		var question, answer string
		if err := rows.Scan(&question, &answer); err != nil {
			return nil, fmt.Errorf("scan application answer: %w", err)
		}
		answers[question] = answer
	}
	return answers, rows.Err()
}
