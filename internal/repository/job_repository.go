package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"talenthub/internal/domain"
)

type jobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &jobRepository{db: db}
}

const jobColumns = `id, company_id, title, description, location, job_type, salary_min, salary_max,
        experience_level, education, department, status, created_by, posted_date, closing_date`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
        INSERT INTO jobs (` + jobColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Description, job.Location, job.JobType,
		job.SalaryMin, job.SalaryMax, job.ExperienceLevel, job.Education, job.Department,
		job.Status, job.CreatedBy, job.PostedAt, job.ClosingAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return r.ReplaceSkills(ctx, job.ID, job.Skills)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	query := `
        UPDATE jobs
        SET title = $2, description = $3, location = $4, job_type = $5, salary_min = $6,
            salary_max = $7, experience_level = $8, education = $9, department = $10,
            status = $11, closing_date = $12
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		job.ID, job.Title, job.Description, job.Location, job.JobType, job.SalaryMin,
		job.SalaryMax, job.ExperienceLevel, job.Education, job.Department, job.Status, job.ClosingAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return checkRowsAffected(result, "update job")
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return checkRowsAffected(result, "delete job")
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job := &domain.Job{}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.Description, &job.Location, &job.JobType,
		&job.SalaryMin, &job.SalaryMax, &job.ExperienceLevel, &job.Education, &job.Department,
		&job.Status, &job.CreatedBy, &job.PostedAt, &job.ClosingAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.Skills, err = r.loadSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	where, args := buildJobFilter(filter)

	var total int
	countQuery := `SELECT count(*) FROM jobs ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	offset := filter.Offset()
	query := fmt.Sprintf(`SELECT `+jobColumns+` FROM jobs %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, jobOrderClause(filter.SortBy), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		err := rows.Scan(
			&job.ID, &job.CompanyID, &job.Title, &job.Description, &job.Location, &job.JobType,
			&job.SalaryMin, &job.SalaryMax, &job.ExperienceLevel, &job.Education, &job.Department,
			&job.Status, &job.CreatedBy, &job.PostedAt, &job.ClosingAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration: %w", err)
	}

	for _, job := range jobs {
		if job.Skills, err = r.loadSkills(ctx, job.ID); err != nil {
			return nil, 0, err
		}
	}
	return jobs, total, nil
}

func buildJobFilter(filter *domain.JobFilter) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if filter.Location != "" {
		add("location ILIKE $%d", "%"+filter.Location+"%")
	}
	if filter.JobType != "" {
		add("job_type = $%d", filter.JobType)
	}
	if filter.CompanyID != uuid.Nil {
		add("company_id = $%d", filter.CompanyID)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func jobOrderClause(sortBy string) string {
	switch sortBy {
	case "oldest":
		return "posted_date ASC"
	case "salary-high":
		return "salary_max DESC"
	case "salary-low":
		return "salary_min ASC"
	default:
		return "posted_date DESC"
	}
}

func (r *jobRepository) loadSkills(ctx context.Context, jobID uuid.UUID) ([]domain.JobSkill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT skill, importance FROM job_skills WHERE job_id = $1 ORDER BY position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query job skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.JobSkill
	for rows.Next() {
		var s domain.JobSkill
		if err := rows.Scan(&s.Skill, &s.Importance); err != nil {
			return nil, fmt.Errorf("scan job skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *jobRepository) ReplaceSkills(ctx context.Context, jobID uuid.UUID, skills []domain.JobSkill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin skills tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("clear job skills: %w", err)
	}

	for i, s := range skills {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO job_skills (job_id, position, skill, importance) VALUES ($1, $2, $3, $4)`,
			jobID, i, s.Skill, s.Importance)
		if err != nil {
			return fmt.Errorf("insert job skill: %w", err)
		}
	}
	return tx.Commit()
}

func (r *jobRepository) CountApplications(ctx context.Context, jobID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM applications WHERE job_id = $1`, jobID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

func checkRowsAffected(result sql.Result, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msgf("failed to get rows affected for %s", operation)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
