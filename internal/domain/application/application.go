package application

import (
	"slices"
	"strings"
	"time"

	"placement/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Statuses lists every status a recruiter may set. Any status may move to any
// other, itself included.
var Statuses = []Status{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

// Application joins a student and a job. There is at most one per
// (StudentID, JobID) pair.
type Application struct {
	ID         common.ID `json:"id"`
	StudentID  common.ID `json:"student_id"`
	JobID      common.ID `json:"job_id"`
	Status     Status    `json:"status"`
	ResumeLink string    `json:"resume_link"`
	AppliedAt  time.Time `json:"applied_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NormalizeStatus(status Status) Status {
	return Status(strings.ToLower(strings.TrimSpace(string(status))))
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}
