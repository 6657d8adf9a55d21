package app

import (
	"context"
	"testing"

	"placement/internal/common"
	"placement/internal/domain/profile"
	"placement/internal/repository/memory"
)

func TestUpsertStudentCreatesThenUpdates(t *testing.T) {
	db := memory.New()
	service := NewProfileService(db.Students(), db.Recruiters())
	ctx := context.Background()

	created, err := service.UpsertStudent(ctx, profile.Student{
		ID: "student-1", Email: "asha@example.com", Name: "Asha", CGPA: 8.2, Branch: "CSE",
		Resumes: []string{"https://drive.google.com/a", "https://drive.google.com/a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "student-1" {
		t.Fatalf("expected principal id to be kept, got %s", created.ID)
	}
	if len(created.Resumes) != 1 {
		t.Fatalf("expected duplicate resume to collapse, got %v", created.Resumes)
	}

	updated, err := service.UpsertStudent(ctx, profile.Student{
		ID: "student-1", Email: "asha@example.com", Name: "Asha K", CGPA: 8.4, Branch: "CSE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Asha K" || updated.CGPA != 8.4 {
		t.Fatalf("expected fields to be updated, got %+v", updated)
	}
	if len(updated.Resumes) != 1 {
		t.Fatalf("expected resumes to be kept when omitted, got %v", updated.Resumes)
	}
}

func TestUpsertNormalizesEmailCase(t *testing.T) {
	db := memory.New()
	service := NewProfileService(db.Students(), db.Recruiters())
	ctx := context.Background()

	created, err := service.UpsertStudent(ctx, profile.Student{ID: "s1", Email: " Asha@Example.COM ", Name: "Asha", CGPA: 8, Branch: "CSE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "asha@example.com" {
		t.Fatalf("expected lower-cased email, got %q", created.Email)
	}
	_, err = service.UpsertStudent(ctx, profile.Student{ID: "s2", Email: "ASHA@example.com", Name: "Other", CGPA: 7, Branch: "IT"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := service.UpsertStudent(ctx, profile.Student{ID: "s2", Email: "ravi@example.com", Name: "Ravi", CGPA: 7, Branch: "IT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = service.UpsertStudent(ctx, profile.Student{ID: "s2", Email: "asha@EXAMPLE.com", Name: "Ravi", CGPA: 7, Branch: "IT"})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict on update, got %v", err)
	}

	recruiter, err := service.UpsertRecruiter(ctx, profile.Recruiter{ID: "r1", Email: "HR@Acme.test", Name: "Ravi", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recruiter.Email != "hr@acme.test" {
		t.Fatalf("expected lower-cased email, got %q", recruiter.Email)
	}
}

func TestUpsertStudentValidation(t *testing.T) {
	db := memory.New()
	service := NewProfileService(db.Students(), db.Recruiters())
	_, err := service.UpsertStudent(context.Background(), profile.Student{ID: "s", Email: "nope", CGPA: 12, Experience: -2})
	appErr, ok := err.(*common.Error)
	if !ok || appErr.Code != common.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "email", "cgpa", "experience", "branch"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Fatalf("expected field %s in %v", field, appErr.Fields)
		}
	}
}

func TestResumeManagement(t *testing.T) {
	db := memory.New()
	service := NewProfileService(db.Students(), db.Recruiters())
	ctx := context.Background()
	if _, err := service.UpsertStudent(ctx, profile.Student{ID: "s1", Email: "s1@example.com", Name: "S", Branch: "IT"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resumes, err := service.AddResume(ctx, "s1", "https://drive.google.com/one")
	if err != nil || len(resumes) != 1 {
		t.Fatalf("expected one resume, got %v (%v)", resumes, err)
	}
	if _, err := service.AddResume(ctx, "s1", "https://drive.google.com/one"); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict for duplicate resume, got %v", err)
	}
	if _, err := service.AddResume(ctx, "s1", "not a link"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := service.AddResume(ctx, "s1", "https://drive.google.com/two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resumes, err = service.RemoveResume(ctx, "s1", "https://drive.google.com/one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resumes) != 1 || resumes[0] != "https://drive.google.com/two" {
		t.Fatalf("unexpected resumes after removal %v", resumes)
	}
	if _, err := service.RemoveResume(ctx, "s1", "https://drive.google.com/unknown"); err != nil {
		t.Fatalf("expected removing unknown link to succeed, got %v", err)
	}
	listed, err := service.ListResumes(ctx, "s1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one listed resume, got %v (%v)", listed, err)
	}
	if _, err := service.ListResumes(ctx, "missing"); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsertRecruiter(t *testing.T) {
	db := memory.New()
	service := NewProfileService(db.Students(), db.Recruiters())
	ctx := context.Background()
	if _, err := service.UpsertRecruiter(ctx, profile.Recruiter{ID: "r1", Email: "hr@acme.test", Name: "Ravi"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error without company, got %v", err)
	}
	created, err := service.UpsertRecruiter(ctx, profile.Recruiter{ID: "r1", Email: "hr@acme.test", Name: "Ravi", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Company != "Acme" {
		t.Fatalf("expected company Acme, got %q", created.Company)
	}
	updated, err := service.UpsertRecruiter(ctx, profile.Recruiter{ID: "r1", Email: "hr@acme.test", Name: "Ravi", Company: "Acme Labs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Company != "Acme Labs" {
		t.Fatalf("expected company to be updated, got %q", updated.Company)
	}
	fetched, err := service.GetRecruiter(ctx, "r1")
	if err != nil || fetched.Company != "Acme Labs" {
		t.Fatalf("expected stored recruiter, got %+v (%v)", fetched, err)
	}
}
