package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"placement/internal/common"
	"placement/internal/domain/job"
)

const jobColumns = `j.id, j.title, j.description, j.company, j.job_type, j.min_cgpa, j.min_experience, j.required_branches, j.location, j.salary, j.posted_by, j.created_at, j.updated_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	if j.ID.IsZero() {
		j.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.RequiredBranches == nil {
		j.RequiredBranches = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, title, description, company, job_type, min_cgpa, min_experience, required_branches, location, salary, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.Title, j.Description, j.Company, j.Type, j.MinCGPA, j.MinExperience, encodeList(j.RequiredBranches), j.Location, nullString(j.Salary), j.PostedBy, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "failed to create job")
	}
	j.ApplicationIDs = []common.ID{}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	j.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, description = $2, company = $3, job_type = $4, min_cgpa = $5, min_experience = $6, required_branches = $7, location = $8, salary = $9, updated_at = $10
		WHERE id = $11 AND posted_by = $12`,
		j.Title, j.Description, j.Company, j.Type, j.MinCGPA, j.MinExperience, encodeList(j.RequiredBranches), j.Location, nullString(j.Salary), j.UpdatedAt, j.ID, j.PostedBy)
	if err != nil {
		return nil, mapError(err, "failed to update job")
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.ID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, mapError(err, "failed to load job")
	}
	refs, err := applicationRefs(ctx, r.db, `SELECT id FROM applications WHERE job_id = $1 ORDER BY applied_at DESC`, j.ID)
	if err != nil {
		return nil, err
	}
	j.ApplicationIDs = refs
	return j, nil
}

func (r *JobRepository) List(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	var where []string
	var args []any
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, "j.job_type = $"+strconv.Itoa(len(args)))
	}
	if !filter.PostedBy.IsZero() {
		args = append(args, filter.PostedBy)
		where = append(where, "j.posted_by = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + jobColumns + `, COALESCE(array_to_json(array_agg(a.id ORDER BY a.applied_at DESC) FILTER (WHERE a.id IS NOT NULL))::text, '[]')
		FROM jobs j LEFT JOIN applications a ON a.job_id = j.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY j.id ORDER BY j.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list jobs")
	}
	defer rows.Close()
	items := []job.Job{}
	for rows.Next() {
		var refs string
		j, err := scanJob(rows, &refs)
		if err != nil {
			return nil, mapError(err, "failed to scan job")
		}
		j.ApplicationIDs = common.IDs(decodeList(refs))
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to list jobs")
	}
	return items, nil
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID common.ID) ([]job.Job, error) {
	return r.List(ctx, job.Filter{PostedBy: recruiterID})
}

// Job back-references are derived from the applications table.
func (r *JobRepository) AddApplicationRef(ctx context.Context, jobID, applicationID common.ID) error {
	return nil
}

func (r *JobRepository) SetApplicationRefs(ctx context.Context, jobID common.ID, applicationIDs []common.ID) error {
	return nil
}

func scanJob(row scanner, extra ...any) (*job.Job, error) {
	var j job.Job
	var branches string
	var salary sql.NullString
	dest := []any{&j.ID, &j.Title, &j.Description, &j.Company, &j.Type, &j.MinCGPA, &j.MinExperience, &branches, &j.Location, &salary, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	j.RequiredBranches = decodeList(branches)
	if salary.Valid {
		j.Salary = salary.String
	}
	return &j, nil
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
