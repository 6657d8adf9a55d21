package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"placement/internal/audit"
	"placement/internal/common"
	"placement/internal/domain/application"
	"placement/internal/domain/eligibility"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
)

type ApplicationService struct {
	repo     application.Repository
	jobs     job.Repository
	students profile.StudentRepository
	audit    audit.Publisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewApplicationService(repo application.Repository, jobs job.Repository, students profile.StudentRepository, publisher audit.Publisher, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		jobs:     jobs,
		students: students,
		audit:    publisher,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecruiterApplication is an application to one of the recruiter's jobs with
// the job and applicant attached. Student is nil when the profile is gone.
type RecruiterApplication struct {
	application.Application
	Job     *job.Job         `json:"job"`
	Student *profile.Student `json:"student"`
}

// Apply creates a pending application after the eligibility gate passes. The
// storage unique key on (student, job) decides concurrent duplicates; the
// lookup beforehand only short-circuits the common case.
func (s *ApplicationService) Apply(ctx context.Context, studentID, jobID common.ID, resumeLink string) (*application.Application, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	target, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result := eligibility.Evaluate(student.Candidate(), target.Requirements())
	if !result.Eligible {
		return nil, common.NewError(common.CodeIneligible, "not eligible for this job", nil).WithDetails(result)
	}

	if _, err := s.repo.FindByStudentAndJob(ctx, student.ID, target.ID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	created, err := s.repo.Create(ctx, application.Application{
		StudentID:  student.ID,
		JobID:      target.ID,
		Status:     application.StatusPending,
		ResumeLink: strings.TrimSpace(resumeLink),
		AppliedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.students.AddApplicationRef(ctx, student.ID, created.ID); err != nil {
		s.logger.Warn("student back-reference not recorded", slog.String("application_id", created.ID.String()), slog.String("error", err.Error()))
	}
	if err := s.jobs.AddApplicationRef(ctx, target.ID, created.ID); err != nil {
		s.logger.Warn("job back-reference not recorded", slog.String("application_id", created.ID.String()), slog.String("error", err.Error()))
	}

	s.publish(audit.KindApplicationSubmitted, created, student, target)
	return created, nil
}

// UpdateStatus overwrites the status. Any status may follow any other and
// repeating the current one succeeds.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID common.ID, status application.Status, recruiterID common.ID) (*application.Application, error) {
	next := application.NormalizeStatus(status)
	if !next.Valid() {
		err := common.NewError(common.CodeInvalidStatus, "invalid status", nil)
		err.Fields = map[string]string{"status": "status must be one of " + statusNames()}
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	target, err := s.jobs.GetByID(ctx, current.JobID)
	if err != nil {
		return nil, err
	}
	if target.PostedBy != recruiterID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another recruiter", nil)
	}
	if current.Status == next {
		return current, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, next)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, updated.StudentID)
	if err != nil {
		s.logger.Warn("applicant not loaded for audit", slog.String("application_id", updated.ID.String()), slog.String("error", err.Error()))
		student = &profile.Student{ID: updated.StudentID}
	}
	s.publish(audit.KindStatusChanged, updated, student, target)
	return updated, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.ID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) ListByStudent(ctx context.Context, studentID common.ID) ([]application.Application, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

func (s *ApplicationService) ListByJob(ctx context.Context, jobID common.ID) ([]application.Application, error) {
	return s.repo.ListByJob(ctx, jobID)
}

func (s *ApplicationService) ListByJobForRecruiter(ctx context.Context, recruiterID, jobID common.ID) ([]application.Application, error) {
	target, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if target.PostedBy != recruiterID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another recruiter", nil)
	}
	return s.repo.ListByJob(ctx, jobID)
}

// ListForRecruiter gathers applications across every job the recruiter posted.
func (s *ApplicationService) ListForRecruiter(ctx context.Context, recruiterID common.ID) ([]RecruiterApplication, error) {
	jobs, err := s.jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	students := map[common.ID]*profile.Student{}
	items := []RecruiterApplication{}
	for i := range jobs {
		posted := &jobs[i]
		apps, err := s.repo.ListByJob(ctx, posted.ID)
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			student, ok := students[app.StudentID]
			if !ok {
				student, err = s.students.GetByID(ctx, app.StudentID)
				if err != nil && !common.Is(err, common.CodeNotFound) {
					return nil, err
				}
				students[app.StudentID] = student
			}
			items = append(items, RecruiterApplication{Application: app, Job: posted, Student: student})
		}
	}
	return items, nil
}

// RebuildReferences recomputes the advisory back-reference lists from the
// application records. A zero id skips that side.
func (s *ApplicationService) RebuildReferences(ctx context.Context, studentID, jobID common.ID) error {
	if !studentID.IsZero() {
		apps, err := s.repo.ListByStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if err := s.students.SetApplicationRefs(ctx, studentID, applicationIDs(apps)); err != nil {
			return err
		}
	}
	if !jobID.IsZero() {
		apps, err := s.repo.ListByJob(ctx, jobID)
		if err != nil {
			return err
		}
		if err := s.jobs.SetApplicationRefs(ctx, jobID, applicationIDs(apps)); err != nil {
			return err
		}
	}
	return nil
}

func (s *ApplicationService) publish(kind audit.Kind, app *application.Application, student *profile.Student, target *job.Job) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(audit.Event{
		Kind:          kind,
		At:            s.now(),
		ApplicationID: app.ID.String(),
		StudentName:   student.Name,
		StudentEmail:  student.Email,
		StudentBranch: student.Branch,
		StudentCGPA:   student.CGPA,
		JobTitle:      target.Title,
		Company:       target.Company,
		AppliedAt:     app.AppliedAt,
		ResumeLink:    app.ResumeLink,
		Status:        string(app.Status),
	})
}

func applicationIDs(apps []application.Application) []common.ID {
	ids := make([]common.ID, 0, len(apps))
	for i := len(apps) - 1; i >= 0; i-- {
		ids = append(ids, apps[i].ID)
	}
	return ids
}

func statusNames() string {
	names := make([]string, 0, len(application.Statuses))
	for _, status := range application.Statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
