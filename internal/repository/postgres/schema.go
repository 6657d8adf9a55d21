package postgres

import (
	"context"
	"database/sql"
)

// schema declares the (student_id, job_id) unique key the application
// lifecycle relies on under concurrent submissions.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		cgpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		experience INTEGER NOT NULL DEFAULT 0,
		branch TEXT NOT NULL DEFAULT '',
		year_of_passing INTEGER NOT NULL DEFAULT 0,
		resumes TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recruiters (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS students_email_lower_key ON students (lower(email))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS recruiters_email_lower_key ON recruiters (lower(email))`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		company TEXT NOT NULL,
		job_type TEXT NOT NULL,
		min_cgpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_experience INTEGER NOT NULL DEFAULT 0,
		required_branches TEXT NOT NULL DEFAULT '[]',
		location TEXT NOT NULL,
		salary TEXT,
		posted_by TEXT NOT NULL REFERENCES recruiters(id),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_posted_by_idx ON jobs (posted_by)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id),
		job_id TEXT NOT NULL REFERENCES jobs(id),
		status TEXT NOT NULL DEFAULT 'pending',
		resume_link TEXT NOT NULL DEFAULT '',
		applied_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT applications_student_job_key UNIQUE (student_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS applications_job_id_idx ON applications (job_id)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return mapError(err, "failed to migrate schema")
		}
	}
	return nil
}

// Store groups the relational repositories over one connection pool.
type Store struct {
	Students     *StudentRepository
	Recruiters   *RecruiterRepository
	Jobs         *JobRepository
	Applications *ApplicationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Students:     NewStudentRepository(db),
		Recruiters:   NewRecruiterRepository(db),
		Jobs:         NewJobRepository(db),
		Applications: NewApplicationRepository(db),
	}
}
