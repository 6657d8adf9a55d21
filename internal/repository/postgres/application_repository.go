package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"placement/internal/common"
	"placement/internal/domain/application"
)

const applicationColumns = `id, student_id, job_id, status, resume_link, applied_at, updated_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create relies on the applications_student_job_key constraint; a concurrent
// duplicate surfaces as a conflict.
func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	if app.ID.IsZero() {
		app.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.StudentID, app.JobID, app.Status, app.ResumeLink, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, mapError(err, "failed to create application")
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.ID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplicationRow(row)
}

func (r *ApplicationRepository) FindByStudentAndJob(ctx context.Context, studentID, jobID common.ID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 AND job_id = $2`, studentID, jobID)
	return scanApplicationRow(row)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.ID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY applied_at DESC`, studentID)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.ID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC`, jobID)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.ID, status application.Status) (*application.Application, error) {
	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, updatedAt, id)
	if err != nil {
		return nil, mapError(err, "failed to update application")
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, id common.ID) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, mapError(err, "failed to list applications")
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		var app application.Application
		if err := rows.Scan(&app.ID, &app.StudentID, &app.JobID, &app.Status, &app.ResumeLink, &app.AppliedAt, &app.UpdatedAt); err != nil {
			return nil, mapError(err, "failed to scan application")
		}
		app.Status = application.NormalizeStatus(app.Status)
		items = append(items, app)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to list applications")
	}
	return items, nil
}

func scanApplicationRow(row *sql.Row) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(&app.ID, &app.StudentID, &app.JobID, &app.Status, &app.ResumeLink, &app.AppliedAt, &app.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, mapError(err, "failed to load application")
	}
	app.Status = application.NormalizeStatus(app.Status)
	return &app, nil
}
