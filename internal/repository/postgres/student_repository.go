package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"placement/internal/common"
	"placement/internal/domain/profile"
)

const studentColumns = `id, email, name, cgpa, experience, branch, year_of_passing, resumes, created_at, updated_at`

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(ctx context.Context, s profile.Student) (*profile.Student, error) {
	if s.ID.IsZero() {
		s.ID = common.NewUUID()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Resumes == nil {
		s.Resumes = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO students (`+studentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.Email, s.Name, s.CGPA, s.Experience, s.Branch, s.YearOfPassing, encodeList(s.Resumes), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, mapError(err, "failed to create student")
	}
	s.ApplicationIDs = []common.ID{}
	return &s, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id common.ID) (*profile.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return r.load(ctx, row)
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*profile.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE lower(email) = lower($1)`, email)
	return r.load(ctx, row)
}

func (r *StudentRepository) Update(ctx context.Context, s profile.Student) (*profile.Student, error) {
	s.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE students SET email = $1, name = $2, cgpa = $3, experience = $4, branch = $5, year_of_passing = $6, resumes = $7, updated_at = $8
		WHERE id = $9`,
		s.Email, s.Name, s.CGPA, s.Experience, s.Branch, s.YearOfPassing, encodeList(s.Resumes), s.UpdatedAt, s.ID)
	if err != nil {
		return nil, mapError(err, "failed to update student")
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "student not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, s.ID)
}

// AddApplicationRef is a no-op: student back-references are derived from the
// applications table.
func (r *StudentRepository) AddApplicationRef(ctx context.Context, studentID, applicationID common.ID) error {
	return nil
}

func (r *StudentRepository) SetApplicationRefs(ctx context.Context, studentID common.ID, applicationIDs []common.ID) error {
	return nil
}

func (r *StudentRepository) load(ctx context.Context, row scanner) (*profile.Student, error) {
	var s profile.Student
	var resumes string
	if err := row.Scan(&s.ID, &s.Email, &s.Name, &s.CGPA, &s.Experience, &s.Branch, &s.YearOfPassing, &resumes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "student not found", err)
		}
		return nil, mapError(err, "failed to load student")
	}
	s.Resumes = decodeList(resumes)
	refs, err := applicationRefs(ctx, r.db, `SELECT id FROM applications WHERE student_id = $1 ORDER BY applied_at DESC`, s.ID)
	if err != nil {
		return nil, err
	}
	s.ApplicationIDs = refs
	return &s, nil
}

func applicationRefs(ctx context.Context, db *sql.DB, query string, id common.ID) ([]common.ID, error) {
	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, mapError(err, "failed to list application references")
	}
	defer rows.Close()
	refs := []common.ID{}
	for rows.Next() {
		var ref common.ID
		if err := rows.Scan(&ref); err != nil {
			return nil, mapError(err, "failed to scan application reference")
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to list application references")
	}
	return refs, nil
}
