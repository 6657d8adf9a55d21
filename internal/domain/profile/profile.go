package profile

import (
	"time"

	"placement/internal/common"
	"placement/internal/domain/eligibility"
)

type Student struct {
	ID             common.ID   `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	CGPA           float64     `json:"cgpa"`
	Experience     int         `json:"experience"`
	Branch         string      `json:"branch"`
	YearOfPassing  int         `json:"year_of_passing"`
	Resumes        []string    `json:"resumes"`
	ApplicationIDs []common.ID `json:"application_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (s Student) Candidate() eligibility.Candidate {
	return eligibility.Candidate{CGPA: s.CGPA, Experience: s.Experience, Branch: s.Branch}
}

func (s Student) HasResume(link string) bool {
	for _, existing := range s.Resumes {
		if existing == link {
			return true
		}
	}
	return false
}

type Recruiter struct {
	ID        common.ID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
