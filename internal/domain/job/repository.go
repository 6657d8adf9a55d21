package job

import (
	"context"

	"placement/internal/common"
)

type Repository interface {
	Create(ctx context.Context, job Job) (*Job, error)
	Update(ctx context.Context, job Job) (*Job, error)
	GetByID(ctx context.Context, id common.ID) (*Job, error)
	List(ctx context.Context, filter Filter) ([]Job, error)
	ListByRecruiter(ctx context.Context, recruiterID common.ID) ([]Job, error)
	// AddApplicationRef and SetApplicationRefs maintain the advisory
	// back-reference list; backends that derive it may treat them as no-ops.
	AddApplicationRef(ctx context.Context, jobID, applicationID common.ID) error
	SetApplicationRefs(ctx context.Context, jobID common.ID, applicationIDs []common.ID) error
}
