package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"placement/internal/common"
	"placement/internal/domain/profile"
)

type RecruiterRepository struct {
	db *sql.DB
}

func NewRecruiterRepository(db *sql.DB) *RecruiterRepository {
	return &RecruiterRepository{db: db}
}

func (r *RecruiterRepository) Create(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	if rec.ID.IsZero() {
		rec.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO recruiters (id, email, name, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Email, rec.Name, rec.Company, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "failed to create recruiter")
	}
	return &rec, nil
}

func (r *RecruiterRepository) GetByID(ctx context.Context, id common.ID) (*profile.Recruiter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, name, company, created_at, updated_at FROM recruiters WHERE id = $1`, id)
	return scanRecruiter(row)
}

func (r *RecruiterRepository) GetByEmail(ctx context.Context, email string) (*profile.Recruiter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, name, company, created_at, updated_at FROM recruiters WHERE lower(email) = lower($1)`, email)
	return scanRecruiter(row)
}

func (r *RecruiterRepository) Update(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	rec.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE recruiters SET email = $1, name = $2, company = $3, updated_at = $4 WHERE id = $5`,
		rec.Email, rec.Name, rec.Company, rec.UpdatedAt, rec.ID)
	if err != nil {
		return nil, mapError(err, "failed to update recruiter")
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "recruiter not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, rec.ID)
}

func scanRecruiter(row scanner) (*profile.Recruiter, error) {
	var rec profile.Recruiter
	if err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.Company, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "recruiter not found", err)
		}
		return nil, mapError(err, "failed to load recruiter")
	}
	return &rec, nil
}
