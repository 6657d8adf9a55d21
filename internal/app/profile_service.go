package app

import (
	"context"
	"math"
	"net/mail"
	"net/url"
	"strings"

	"placement/internal/common"
	"placement/internal/domain/profile"
)

// ProfileService manages the student and recruiter profiles. Profiles are
// keyed by the authenticated principal's id.
type ProfileService struct {
	students   profile.StudentRepository
	recruiters profile.RecruiterRepository
}

func NewProfileService(students profile.StudentRepository, recruiters profile.RecruiterRepository) *ProfileService {
	return &ProfileService{students: students, recruiters: recruiters}
}

func (s *ProfileService) GetStudent(ctx context.Context, id common.ID) (*profile.Student, error) {
	return s.students.GetByID(ctx, id)
}

// UpsertStudent creates the profile on first call and overwrites the editable
// fields afterwards. A nil Resumes keeps the stored list.
func (s *ProfileService) UpsertStudent(ctx context.Context, input profile.Student) (*profile.Student, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Branch = strings.TrimSpace(input.Branch)
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if !validEmail(input.Email) {
		fields["email"] = "valid email is required"
	}
	if math.IsNaN(input.CGPA) || math.IsInf(input.CGPA, 0) || input.CGPA < 0 || input.CGPA > 10 {
		fields["cgpa"] = "cgpa must be between 0 and 10"
	}
	if input.Experience < 0 {
		fields["experience"] = "experience must not be negative"
	}
	if input.Branch == "" {
		fields["branch"] = "branch is required"
	}
	if input.YearOfPassing != 0 && (input.YearOfPassing < 1950 || input.YearOfPassing > 2100) {
		fields["year_of_passing"] = "year_of_passing is out of range"
	}
	if input.Resumes != nil {
		resumes, ok := normalizeResumes(input.Resumes)
		if !ok {
			fields["resumes"] = "resumes must be http or https links"
		}
		input.Resumes = resumes
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid student profile", fields)
	}

	current, err := s.students.GetByID(ctx, input.ID)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		if input.Resumes == nil {
			input.Resumes = []string{}
		}
		return s.students.Create(ctx, input)
	}
	if input.Resumes == nil {
		input.Resumes = current.Resumes
	}
	return s.students.Update(ctx, input)
}

func (s *ProfileService) ListResumes(ctx context.Context, studentID common.ID) ([]string, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return student.Resumes, nil
}

func (s *ProfileService) AddResume(ctx context.Context, studentID common.ID, link string) ([]string, error) {
	link = strings.TrimSpace(link)
	if !validLink(link) {
		return nil, common.NewValidationError("invalid resume link", map[string]string{"resume_link": "an http or https link is required"})
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.HasResume(link) {
		return nil, common.NewError(common.CodeConflict, "resume already exists", nil)
	}
	student.Resumes = append(student.Resumes, link)
	updated, err := s.students.Update(ctx, *student)
	if err != nil {
		return nil, err
	}
	return updated.Resumes, nil
}

// RemoveResume drops the link if present. Removing an unknown link succeeds.
func (s *ProfileService) RemoveResume(ctx context.Context, studentID common.ID, link string) ([]string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, common.NewValidationError("invalid resume link", map[string]string{"resume_link": "resume_link is required"})
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.HasResume(link) {
		return student.Resumes, nil
	}
	kept := make([]string, 0, len(student.Resumes))
	for _, existing := range student.Resumes {
		if existing != link {
			kept = append(kept, existing)
		}
	}
	student.Resumes = kept
	updated, err := s.students.Update(ctx, *student)
	if err != nil {
		return nil, err
	}
	return updated.Resumes, nil
}

func (s *ProfileService) GetRecruiter(ctx context.Context, id common.ID) (*profile.Recruiter, error) {
	return s.recruiters.GetByID(ctx, id)
}

func (s *ProfileService) UpsertRecruiter(ctx context.Context, input profile.Recruiter) (*profile.Recruiter, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Company = strings.TrimSpace(input.Company)
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if !validEmail(input.Email) {
		fields["email"] = "valid email is required"
	}
	if input.Company == "" {
		fields["company"] = "company is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid recruiter profile", fields)
	}

	if _, err := s.recruiters.GetByID(ctx, input.ID); err != nil {
		if !common.Is(err, common.CodeNotFound) {
			return nil, err
		}
		return s.recruiters.Create(ctx, input)
	}
	return s.recruiters.Update(ctx, input)
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validLink(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func normalizeResumes(links []string) ([]string, bool) {
	out := make([]string, 0, len(links))
	seen := map[string]bool{}
	ok := true
	for _, link := range links {
		link = strings.TrimSpace(link)
		if !validLink(link) {
			ok = false
			continue
		}
		if seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, link)
	}
	return out, ok
}
