package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"placement/internal/common"
	"placement/internal/domain/eligibility"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
)

type JobService struct {
	repo       job.Repository
	recruiters profile.RecruiterRepository
	students   profile.StudentRepository
}

func NewJobService(repo job.Repository, recruiters profile.RecruiterRepository, students profile.StudentRepository) *JobService {
	return &JobService{repo: repo, recruiters: recruiters, students: students}
}

// JobWithEligibility pairs a posting with the student's evaluation against it.
type JobWithEligibility struct {
	job.Job
	Eligibility eligibility.Result `json:"eligibility"`
	Message     string             `json:"message"`
}

const (
	SortByCreatedAt   = "createdAt"
	SortByEligibility = "eligibility"
	SortBySalary      = "salary"
)

type EligibleQuery struct {
	EligibleOnly bool
	SortBy       string
	Ascending    bool
	Type         job.Type
}

func (s *JobService) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	recruiter, err := s.recruiters.GetByID(ctx, j.PostedBy)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "recruiter profile is required", nil)
		}
		return nil, err
	}
	if strings.TrimSpace(j.Company) == "" {
		j.Company = recruiter.Company
	}
	if err := normalizeJob(&j); err != nil {
		return nil, err
	}
	j.ID = ""
	j.ApplicationIDs = nil
	return s.repo.Create(ctx, j)
}

func (s *JobService) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	current, err := s.repo.GetByID(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	if current.PostedBy != j.PostedBy {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another recruiter", nil)
	}
	if strings.TrimSpace(j.Company) == "" {
		j.Company = current.Company
	}
	if err := normalizeJob(&j); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, j)
}

func (s *JobService) Get(ctx context.Context, id common.ID) (*job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *JobService) List(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	if filter.Type != "" {
		filter.Type = job.NormalizeType(filter.Type)
		if !filter.Type.Valid() {
			return nil, common.NewValidationError("invalid job type", map[string]string{"type": "type must be internship or full-time"})
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *JobService) ListByRecruiter(ctx context.Context, recruiterID common.ID) ([]job.Job, error) {
	return s.repo.ListByRecruiter(ctx, recruiterID)
}

// ListEligible evaluates every posting against the student's profile. Results
// default to newest first.
func (s *JobService) ListEligible(ctx context.Context, studentID common.ID, q EligibleQuery) ([]JobWithEligibility, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.List(ctx, job.Filter{Type: q.Type})
	if err != nil {
		return nil, err
	}
	candidate := student.Candidate()
	if q.EligibleOnly {
		jobs = eligibility.FilterEligible(candidate, jobs, job.Job.Requirements)
	}
	items := make([]JobWithEligibility, 0, len(jobs))
	for _, j := range jobs {
		result := eligibility.Evaluate(candidate, j.Requirements())
		items = append(items, JobWithEligibility{Job: j, Eligibility: result, Message: result.Summary()})
	}

	var less func(a, b JobWithEligibility) int
	switch q.SortBy {
	case SortByEligibility:
		less = func(a, b JobWithEligibility) int { return boolRank(b.Eligibility.Eligible) - boolRank(a.Eligibility.Eligible) }
	case SortBySalary:
		less = func(a, b JobWithEligibility) int { return compareInt64(ParseSalary(b.Salary), ParseSalary(a.Salary)) }
	default:
		less = func(a, b JobWithEligibility) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	sort.SliceStable(items, func(i, k int) bool {
		c := less(items[i], items[k])
		if q.Ascending {
			c = -c
		}
		return c < 0
	})
	return items, nil
}

// ParseSalary keeps only the digits of a display string, so "₹50,000/month"
// reads as 50000. Anything without digits is 0.
func ParseSalary(salary string) int64 {
	var b strings.Builder
	for _, r := range salary {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	value, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return value
}

func normalizeJob(j *job.Job) error {
	fields := map[string]string{}
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	j.Salary = strings.TrimSpace(j.Salary)
	j.Type = job.NormalizeType(j.Type)

	if j.Title == "" {
		fields["title"] = "title is required"
	}
	if j.Description == "" {
		fields["description"] = "description is required"
	}
	if !j.Type.Valid() {
		fields["type"] = "type must be internship or full-time"
	}
	if j.Location == "" {
		fields["location"] = "location is required"
	}
	if j.Company == "" {
		fields["company"] = "company is required"
	}
	if math.IsNaN(j.MinCGPA) || j.MinCGPA < 0 || j.MinCGPA > 10 {
		fields["min_cgpa"] = "min_cgpa must be between 0 and 10"
	}
	if j.MinExperience < 0 {
		fields["min_experience"] = "min_experience must not be negative"
	}
	branches := make([]string, 0, len(j.RequiredBranches))
	seen := map[string]bool{}
	for i, branch := range j.RequiredBranches {
		branch = strings.TrimSpace(branch)
		if branch == "" {
			fields[fmt.Sprintf("required_branches[%d]", i)] = "branch must not be empty"
			continue
		}
		key := eligibility.NormalizeBranch(branch)
		if seen[key] {
			continue
		}
		seen[key] = true
		branches = append(branches, branch)
	}
	j.RequiredBranches = branches

	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
