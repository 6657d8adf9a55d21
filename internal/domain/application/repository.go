package application

import (
	"context"

	"placement/internal/common"
)

// Repository persists applications. Create must reject a second application
// for the same (StudentID, JobID) with a common.CodeConflict error enforced by
// the storage engine itself.
type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.ID) (*Application, error)
	FindByStudentAndJob(ctx context.Context, studentID, jobID common.ID) (*Application, error)
	ListByStudent(ctx context.Context, studentID common.ID) ([]Application, error)
	ListByJob(ctx context.Context, jobID common.ID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.ID, status Status) (*Application, error)
}
