package profile

import (
	"context"

	"placement/internal/common"
)

type StudentRepository interface {
	Create(ctx context.Context, student Student) (*Student, error)
	GetByID(ctx context.Context, id common.ID) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	Update(ctx context.Context, student Student) (*Student, error)
	AddApplicationRef(ctx context.Context, studentID, applicationID common.ID) error
	SetApplicationRefs(ctx context.Context, studentID common.ID, applicationIDs []common.ID) error
}

type RecruiterRepository interface {
	Create(ctx context.Context, recruiter Recruiter) (*Recruiter, error)
	GetByID(ctx context.Context, id common.ID) (*Recruiter, error)
	GetByEmail(ctx context.Context, email string) (*Recruiter, error)
	Update(ctx context.Context, recruiter Recruiter) (*Recruiter, error)
}
