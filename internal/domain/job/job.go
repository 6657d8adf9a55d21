package job

import (
	"strings"
	"time"

	"placement/internal/common"
	"placement/internal/domain/eligibility"
)

type Type string

const (
	TypeInternship Type = "internship"
	TypeFullTime   Type = "full-time"
)

func NormalizeType(t Type) Type {
	normalized := Type(strings.ToLower(strings.TrimSpace(string(t))))
	switch normalized {
	case "job", "fulltime", "full_time", "full time":
		return TypeFullTime
	}
	return normalized
}

func (t Type) Valid() bool {
	return t == TypeInternship || t == TypeFullTime
}

type Job struct {
	ID               common.ID   `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Company          string      `json:"company"`
	Type             Type        `json:"type"`
	MinCGPA          float64     `json:"min_cgpa"`
	MinExperience    int         `json:"min_experience"`
	RequiredBranches []string    `json:"required_branches"`
	Location         string      `json:"location"`
	Salary           string      `json:"salary,omitempty"`
	PostedBy         common.ID   `json:"posted_by"`
	ApplicationIDs   []common.ID `json:"application_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (j Job) Requirements() eligibility.Requirements {
	return eligibility.Requirements{
		MinCGPA:          j.MinCGPA,
		MinExperience:    j.MinExperience,
		RequiredBranches: j.RequiredBranches,
	}
}

// Filter narrows job listings. Zero values mean no restriction.
type Filter struct {
	Type     Type
	PostedBy common.ID
}
