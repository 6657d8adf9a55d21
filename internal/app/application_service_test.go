package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"placement/internal/audit"
	"placement/internal/common"
	"placement/internal/domain/application"
	"placement/internal/domain/eligibility"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
	"placement/internal/repository/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *fakePublisher) Publish(event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) kinds() []audit.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]audit.Kind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// failingRefs wraps a job repository whose back-reference writes always fail.
type failingRefs struct {
	job.Repository
}

func (failingRefs) AddApplicationRef(context.Context, common.ID, common.ID) error {
	return errors.New("refs offline")
}

type fixture struct {
	db        *memory.DB
	service   *ApplicationService
	publisher *fakePublisher
	student   *profile.Student
	recruiter *profile.Recruiter
	job       *job.Job
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	student, err := db.Students().Create(ctx, profile.Student{
		Email: "asha@example.com", Name: "Asha", CGPA: 8.0, Experience: 0, Branch: "Computer Science",
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	recruiter, err := db.Recruiters().Create(ctx, profile.Recruiter{Email: "hr@acme.test", Name: "Ravi", Company: "Acme"})
	if err != nil {
		t.Fatalf("seed recruiter: %v", err)
	}
	posted, err := db.Jobs().Create(ctx, job.Job{
		Title: "Backend Intern", Description: "Go services", Company: "Acme", Type: job.TypeInternship,
		MinCGPA: 7.5, RequiredBranches: []string{"Computer Science", "Information Technology"},
		Location: "Remote", PostedBy: recruiter.ID,
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	publisher := &fakePublisher{}
	service := NewApplicationService(db.Applications(), db.Jobs(), db.Students(), publisher, discardLogger())
	return &fixture{db: db, service: service, publisher: publisher, student: student, recruiter: recruiter, job: posted}
}

func TestApplyThenAcceptThenDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Apply(ctx, f.student.ID, f.job.ID, " https://drive.google.com/resume ")
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.ResumeLink != "https://drive.google.com/resume" {
		t.Fatalf("expected trimmed resume link, got %q", created.ResumeLink)
	}

	updated, err := f.service.UpdateStatus(ctx, created.ID, "accepted", f.recruiter.ID)
	if err != nil {
		t.Fatalf("unexpected status error: %v", err)
	}
	if updated.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}
	read, err := f.service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if read.Status != application.StatusAccepted {
		t.Fatalf("expected stored status accepted, got %s", read.Status)
	}

	_, err = f.service.Apply(ctx, f.student.ID, f.job.ID, "")
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict on second apply, got %v", err)
	}

	kinds := f.publisher.kinds()
	if len(kinds) != 2 || kinds[0] != audit.KindApplicationSubmitted || kinds[1] != audit.KindStatusChanged {
		t.Fatalf("unexpected audit events %v", kinds)
	}
}

func TestApplyRecordsBackReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.service.Apply(ctx, f.student.ID, f.job.ID, "")
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	student, _ := f.db.Students().GetByID(ctx, f.student.ID)
	posted, _ := f.db.Jobs().GetByID(ctx, f.job.ID)
	if len(student.ApplicationIDs) != 1 || student.ApplicationIDs[0] != created.ID {
		t.Fatalf("expected student back-reference, got %v", student.ApplicationIDs)
	}
	if len(posted.ApplicationIDs) != 1 || posted.ApplicationIDs[0] != created.ID {
		t.Fatalf("expected job back-reference, got %v", posted.ApplicationIDs)
	}
}

func TestApplyIneligibleCarriesResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	strict, err := f.db.Jobs().Create(ctx, job.Job{
		Title: "Research", Description: "ML", Company: "Acme", Type: job.TypeFullTime,
		MinCGPA: 9.0, RequiredBranches: []string{"Computer Science"}, Location: "Pune", PostedBy: f.recruiter.ID,
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}

	_, err = f.service.Apply(ctx, f.student.ID, strict.ID, "")
	if !common.Is(err, common.CodeIneligible) {
		t.Fatalf("expected ineligible, got %v", err)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *common.Error, got %T", err)
	}
	result, ok := appErr.Details.(eligibility.Result)
	if !ok {
		t.Fatalf("expected eligibility result details, got %T", appErr.Details)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "CGPA requirement not met (Required: 9, Current: 8)" {
		t.Fatalf("unexpected reasons %v", result.Reasons)
	}
	if result.Missing.CGPA == nil || result.Missing.CGPA.Required != 9 || result.Missing.CGPA.Current != 8 {
		t.Fatalf("unexpected missing cgpa %+v", result.Missing.CGPA)
	}
	apps, _ := f.service.ListByStudent(ctx, f.student.ID)
	if len(apps) != 0 {
		t.Fatalf("expected no application to be stored, got %d", len(apps))
	}
	if len(f.publisher.kinds()) != 0 {
		t.Fatalf("expected no audit event for rejected apply")
	}
}

func TestApplyNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.service.Apply(ctx, "missing", f.job.ID, ""); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for student, got %v", err)
	}
	if _, err := f.service.Apply(ctx, f.student.ID, "missing", ""); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for job, got %v", err)
	}
}

func TestApplyConcurrentDuplicatesKeepOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Apply(ctx, f.student.ID, f.job.ID, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case common.Is(err, common.CodeConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", attempts-1, successes, conflicts)
	}
	apps, _ := f.service.ListByJob(ctx, f.job.ID)
	if len(apps) != 1 {
		t.Fatalf("expected exactly one stored application, got %d", len(apps))
	}
}

func TestApplySucceedsWhenBackReferenceFails(t *testing.T) {
	f := newFixture(t)
	service := NewApplicationService(f.db.Applications(), failingRefs{f.db.Jobs()}, f.db.Students(), f.publisher, discardLogger())
	if _, err := service.Apply(context.Background(), f.student.ID, f.job.ID, ""); err != nil {
		t.Fatalf("expected apply to succeed despite back-reference failure, got %v", err)
	}
}

func TestApplyWithoutPublisher(t *testing.T) {
	f := newFixture(t)
	service := NewApplicationService(f.db.Applications(), f.db.Jobs(), f.db.Students(), nil, discardLogger())
	if _, err := service.Apply(context.Background(), f.student.ID, f.job.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateStatusRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.service.Apply(ctx, f.student.ID, f.job.ID, "")
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}

	for _, status := range []application.Status{"reviewed", " REJECTED ", "pending", "accepted", "reviewed"} {
		updated, err := f.service.UpdateStatus(ctx, created.ID, status, f.recruiter.ID)
		if err != nil {
			t.Fatalf("expected %q to be accepted, got %v", status, err)
		}
		if updated.Status != application.NormalizeStatus(status) {
			t.Fatalf("expected %s, got %s", application.NormalizeStatus(status), updated.Status)
		}
	}

	if _, err := f.service.UpdateStatus(ctx, created.ID, "reviewed", f.recruiter.ID); err != nil {
		t.Fatalf("expected same status to succeed, got %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, created.ID, "hired", f.recruiter.ID); !common.Is(err, common.CodeInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, created.ID, "accepted", "other-recruiter"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := f.service.UpdateStatus(ctx, "missing", "accepted", f.recruiter.ID); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByJobForRecruiterEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.service.Apply(ctx, f.student.ID, f.job.ID, ""); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	apps, err := f.service.ListByJobForRecruiter(ctx, f.recruiter.ID, f.job.ID)
	if err != nil || len(apps) != 1 {
		t.Fatalf("expected one application, got %d (%v)", len(apps), err)
	}
	if _, err := f.service.ListByJobForRecruiter(ctx, "someone-else", f.job.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListForRecruiterAttachesJobAndStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.service.Apply(ctx, f.student.ID, f.job.ID, ""); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	items, err := f.service.ListForRecruiter(ctx, f.recruiter.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].Job == nil || items[0].Job.ID != f.job.ID {
		t.Fatalf("expected job attached")
	}
	if items[0].Student == nil || items[0].Student.Email != "asha@example.com" {
		t.Fatalf("expected student attached")
	}
	none, err := f.service.ListForRecruiter(ctx, "nobody")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %d (%v)", len(none), err)
	}
}

func TestRebuildReferencesRestoresDriftedLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.service.Apply(ctx, f.student.ID, f.job.ID, "")
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if err := f.db.Students().SetApplicationRefs(ctx, f.student.ID, []common.ID{"stale"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.db.Jobs().SetApplicationRefs(ctx, f.job.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.RebuildReferences(ctx, f.student.ID, f.job.ID); err != nil {
		t.Fatalf("unexpected rebuild error: %v", err)
	}
	student, _ := f.db.Students().GetByID(ctx, f.student.ID)
	posted, _ := f.db.Jobs().GetByID(ctx, f.job.ID)
	if len(student.ApplicationIDs) != 1 || student.ApplicationIDs[0] != created.ID {
		t.Fatalf("expected rebuilt student refs, got %v", student.ApplicationIDs)
	}
	if len(posted.ApplicationIDs) != 1 || posted.ApplicationIDs[0] != created.ID {
		t.Fatalf("expected rebuilt job refs, got %v", posted.ApplicationIDs)
	}
}
