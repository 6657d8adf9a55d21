// Package memory keeps every record in process memory. It enforces the same
// unique keys as the database adapters and is meant for tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"placement/internal/common"
	"placement/internal/domain/application"
	"placement/internal/domain/job"
	"placement/internal/domain/profile"
)

type DB struct {
	mu           sync.RWMutex
	students     map[common.ID]*profile.Student
	recruiters   map[common.ID]*profile.Recruiter
	jobs         map[common.ID]*job.Job
	applications map[common.ID]*application.Application
	pairs        map[pairKey]common.ID
	clock        func() time.Time
}

type pairKey struct {
	studentID common.ID
	jobID     common.ID
}

func New() *DB {
	return &DB{
		students:     make(map[common.ID]*profile.Student),
		recruiters:   make(map[common.ID]*profile.Recruiter),
		jobs:         make(map[common.ID]*job.Job),
		applications: make(map[common.ID]*application.Application),
		pairs:        make(map[pairKey]common.ID),
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

func (db *DB) Students() *StudentRepository {
	return &StudentRepository{db: db}
}

func (db *DB) Recruiters() *RecruiterRepository {
	return &RecruiterRepository{db: db}
}

func (db *DB) Jobs() *JobRepository {
	return &JobRepository{db: db}
}

func (db *DB) Applications() *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

type StudentRepository struct {
	db *DB
}

func (r *StudentRepository) Create(ctx context.Context, s profile.Student) (*profile.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = common.NewUUID()
	}
	if _, ok := r.db.students[s.ID]; ok {
		return nil, common.NewError(common.CodeConflict, "student already exists", nil)
	}
	for _, existing := range r.db.students {
		if strings.EqualFold(existing.Email, s.Email) {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	now := r.db.clock()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Resumes = cloneStrings(s.Resumes)
	s.ApplicationIDs = nil
	r.db.students[s.ID] = &s
	return cloneStudent(&s), nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id common.ID) (*profile.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s := r.db.students[id]
	if s == nil {
		return nil, common.NewError(common.CodeNotFound, "student not found", nil)
	}
	return cloneStudent(s), nil
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*profile.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.students {
		if strings.EqualFold(s.Email, email) {
			return cloneStudent(s), nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "student not found", nil)
}

func (r *StudentRepository) Update(ctx context.Context, s profile.Student) (*profile.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current := r.db.students[s.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "student not found", nil)
	}
	for id, existing := range r.db.students {
		if id != s.ID && strings.EqualFold(existing.Email, s.Email) {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	s.CreatedAt = current.CreatedAt
	s.UpdatedAt = r.db.clock()
	s.Resumes = cloneStrings(s.Resumes)
	s.ApplicationIDs = current.ApplicationIDs
	r.db.students[s.ID] = &s
	return cloneStudent(&s), nil
}

func (r *StudentRepository) AddApplicationRef(ctx context.Context, studentID, applicationID common.ID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := r.db.students[studentID]
	if s == nil {
		return common.NewError(common.CodeNotFound, "student not found", nil)
	}
	s.ApplicationIDs = appendUnique(s.ApplicationIDs, applicationID)
	return nil
}

func (r *StudentRepository) SetApplicationRefs(ctx context.Context, studentID common.ID, applicationIDs []common.ID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := r.db.students[studentID]
	if s == nil {
		return common.NewError(common.CodeNotFound, "student not found", nil)
	}
	s.ApplicationIDs = append([]common.ID(nil), applicationIDs...)
	return nil
}

type RecruiterRepository struct {
	db *DB
}

func (r *RecruiterRepository) Create(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = common.NewUUID()
	}
	if _, ok := r.db.recruiters[rec.ID]; ok {
		return nil, common.NewError(common.CodeConflict, "recruiter already exists", nil)
	}
	for _, existing := range r.db.recruiters {
		if strings.EqualFold(existing.Email, rec.Email) {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	now := r.db.clock()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.db.recruiters[rec.ID] = &rec
	copy := rec
	return &copy, nil
}

func (r *RecruiterRepository) GetByID(ctx context.Context, id common.ID) (*profile.Recruiter, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rec := r.db.recruiters[id]
	if rec == nil {
		return nil, common.NewError(common.CodeNotFound, "recruiter not found", nil)
	}
	copy := *rec
	return &copy, nil
}

func (r *RecruiterRepository) GetByEmail(ctx context.Context, email string) (*profile.Recruiter, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, rec := range r.db.recruiters {
		if strings.EqualFold(rec.Email, email) {
			copy := *rec
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "recruiter not found", nil)
}

func (r *RecruiterRepository) Update(ctx context.Context, rec profile.Recruiter) (*profile.Recruiter, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current := r.db.recruiters[rec.ID]
	if current == nil {
		return nil, common.NewError(common.CodeNotFound, "recruiter not found", nil)
	}
	for id, existing := range r.db.recruiters {
		if id != rec.ID && strings.EqualFold(existing.Email, rec.Email) {
			return nil, common.NewError(common.CodeConflict, "email already registered", nil)
		}
	}
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = r.db.clock()
	r.db.recruiters[rec.ID] = &rec
	copy := rec
	return &copy, nil
}

type JobRepository struct {
	db *DB
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if j.ID.IsZero() {
		j.ID = common.NewUUID()
	}
	now := r.db.clock()
	j.CreatedAt = now
	j.UpdatedAt = now
	j.RequiredBranches = cloneStrings(j.RequiredBranches)
	j.ApplicationIDs = nil
	r.db.jobs[j.ID] = &j
	return cloneJob(&j), nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current := r.db.jobs[j.ID]
	if current == nil || current.PostedBy != j.PostedBy {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.CreatedAt = current.CreatedAt
	j.UpdatedAt = r.db.clock()
	j.RequiredBranches = cloneStrings(j.RequiredBranches)
	j.ApplicationIDs = current.ApplicationIDs
	r.db.jobs[j.ID] = &j
	return cloneJob(&j), nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.ID) (*job.Job, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	j := r.db.jobs[id]
	if j == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return cloneJob(j), nil
}

func (r *JobRepository) List(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := []job.Job{}
	for _, j := range r.db.jobs {
		if filter.Type != "" && j.Type != filter.Type {
			continue
		}
		if !filter.PostedBy.IsZero() && j.PostedBy != filter.PostedBy {
			continue
		}
		items = append(items, *cloneJob(j))
	}
	sort.SliceStable(items, func(i, k int) bool { return items[i].CreatedAt.After(items[k].CreatedAt) })
	return items, nil
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID common.ID) ([]job.Job, error) {
	return r.List(ctx, job.Filter{PostedBy: recruiterID})
}

func (r *JobRepository) AddApplicationRef(ctx context.Context, jobID, applicationID common.ID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j := r.db.jobs[jobID]
	if j == nil {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.ApplicationIDs = appendUnique(j.ApplicationIDs, applicationID)
	return nil
}

func (r *JobRepository) SetApplicationRefs(ctx context.Context, jobID common.ID, applicationIDs []common.ID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j := r.db.jobs[jobID]
	if j == nil {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.ApplicationIDs = append([]common.ID(nil), applicationIDs...)
	return nil
}

type ApplicationRepository struct {
	db *DB
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := pairKey{studentID: app.StudentID, jobID: app.JobID}
	if _, ok := r.db.pairs[key]; ok {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	}
	if app.ID.IsZero() {
		app.ID = common.NewUUID()
	}
	now := r.db.clock()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.UpdatedAt = now
	r.db.applications[app.ID] = &app
	r.db.pairs[key] = app.ID
	copy := app
	return &copy, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.ID) (*application.Application, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	app := r.db.applications[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copy := *app
	return &copy, nil
}

func (r *ApplicationRepository) FindByStudentAndJob(ctx context.Context, studentID, jobID common.ID) (*application.Application, error) {
	r.db.mu.RLock()
	id, ok := r.db.pairs[pairKey{studentID: studentID, jobID: jobID}]
	r.db.mu.RUnlock()
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.ID) ([]application.Application, error) {
	return r.list(func(app *application.Application) bool { return app.StudentID == studentID }), nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.ID) ([]application.Application, error) {
	return r.list(func(app *application.Application) bool { return app.JobID == jobID }), nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.ID, status application.Status) (*application.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	app := r.db.applications[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = r.db.clock()
	copy := *app
	return &copy, nil
}

func (r *ApplicationRepository) list(match func(*application.Application) bool) []application.Application {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := []application.Application{}
	for _, app := range r.db.applications {
		if match(app) {
			items = append(items, *app)
		}
	}
	sort.SliceStable(items, func(i, k int) bool { return items[i].AppliedAt.After(items[k].AppliedAt) })
	return items
}

func cloneStudent(s *profile.Student) *profile.Student {
	copy := *s
	copy.Resumes = cloneStrings(s.Resumes)
	copy.ApplicationIDs = append([]common.ID{}, s.ApplicationIDs...)
	return &copy
}

func cloneJob(j *job.Job) *job.Job {
	copy := *j
	copy.RequiredBranches = cloneStrings(j.RequiredBranches)
	copy.ApplicationIDs = append([]common.ID{}, j.ApplicationIDs...)
	return &copy
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string{}, values...)
}

func appendUnique(ids []common.ID, id common.ID) []common.ID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
