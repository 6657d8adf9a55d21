package mongodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"placement/internal/common"
	"placement/internal/domain/application"
	"placement/internal/domain/job"
)

func duplicateKey() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
}

func TestMapError_DuplicateKeyIsConflict(t *testing.T) {
	cases := []error{
		duplicateKey(),
		mongo.CommandError{Code: 11000},
		fmt.Errorf("insert: %w", duplicateKey()),
	}
	for _, err := range cases {
		if got := mapError(err, "failed"); !common.Is(got, common.CodeConflict) {
			t.Fatalf("expected conflict for %v, got %v", err, got)
		}
	}
}

func TestMapError_Unavailable(t *testing.T) {
	cases := []error{
		mongo.CommandError{Labels: []string{"NetworkError"}},
		context.DeadlineExceeded,
		fmt.Errorf("find: %w", context.DeadlineExceeded),
		mongo.ErrClientDisconnected,
	}
	for _, err := range cases {
		if got := mapError(err, "failed"); !common.Is(got, common.CodeUnavailable) {
			t.Fatalf("expected storage_unavailable for %v, got %v", err, got)
		}
	}
}

func TestMapError_Internal(t *testing.T) {
	if got := mapError(errors.New("bad bson"), "failed"); !common.Is(got, common.CodeInternal) {
		t.Fatalf("expected internal error, got %v", got)
	}
	if mapError(nil, "failed") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestMapWriteError_ConflictMessageOnlyForDuplicates(t *testing.T) {
	got := mapWriteError(duplicateKey(), "already applied", "failed to create application")
	var appErr *common.Error
	if !errors.As(got, &appErr) || appErr.Code != common.CodeConflict || appErr.Message != "already applied" {
		t.Fatalf("expected already applied conflict, got %v", got)
	}

	got = mapWriteError(errors.New("boom"), "already applied", "failed to create application")
	if !errors.As(got, &appErr) || appErr.Code != common.CodeInternal || appErr.Message != "failed to create application" {
		t.Fatalf("expected internal failure message, got %v", got)
	}

	got = mapWriteError(context.DeadlineExceeded, "already applied", "failed to create application")
	if !common.Is(got, common.CodeUnavailable) {
		t.Fatalf("expected storage_unavailable, got %v", got)
	}
}

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	for _, id := range []common.ID{"", "missing", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := objectID(id, "job"); !common.Is(err, common.CodeNotFound) {
			t.Fatalf("expected not found for %q, got %v", id, err)
		}
	}
	oid := primitive.NewObjectID()
	got, err := objectID(common.ID(oid.Hex()), "job")
	if err != nil || got != oid {
		t.Fatalf("expected %s, got %s (%v)", oid.Hex(), got.Hex(), err)
	}
}

func TestNewObjectID(t *testing.T) {
	generated, err := newObjectID("")
	if err != nil || generated.IsZero() {
		t.Fatalf("expected generated id, got %s (%v)", generated.Hex(), err)
	}

	if _, err := newObjectID("student-1"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	oid := primitive.NewObjectID()
	kept, err := newObjectID(common.ID(oid.Hex()))
	if err != nil || kept != oid {
		t.Fatalf("expected caller id to be kept, got %s (%v)", kept.Hex(), err)
	}
}

func TestFromIDsDropsMalformed(t *testing.T) {
	oid := primitive.NewObjectID()
	got := fromIDs([]common.ID{common.ID(oid.Hex()), "bad", ""})
	if len(got) != 1 || got[0] != oid {
		t.Fatalf("expected only %s, got %v", oid.Hex(), got)
	}
	if ids := toIDs(got); len(ids) != 1 || ids[0] != common.ID(oid.Hex()) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestJobDocumentDomain(t *testing.T) {
	doc := jobDocument{
		ID:            primitive.NewObjectID(),
		Title:         "Backend Intern",
		Type:          "internship",
		MinCGPA:       7.5,
		MinExperience: 6,
		PostedBy:      primitive.NewObjectID(),
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	got := doc.domain()
	if got.ID != toID(doc.ID) || got.PostedBy != toID(doc.PostedBy) {
		t.Fatalf("unexpected ids %+v", got)
	}
	if got.Type != job.TypeInternship || got.MinCGPA != 7.5 || got.MinExperience != 6 {
		t.Fatalf("unexpected fields %+v", got)
	}
	if got.RequiredBranches == nil || len(got.RequiredBranches) != 0 {
		t.Fatalf("expected empty non-nil branches, got %#v", got.RequiredBranches)
	}
	if got.ApplicationIDs == nil || len(got.ApplicationIDs) != 0 {
		t.Fatalf("expected empty non-nil application ids, got %#v", got.ApplicationIDs)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) {
		t.Fatalf("expected created at %v, got %v", doc.CreatedAt, got.CreatedAt)
	}
}

func TestApplicationDocumentDomain(t *testing.T) {
	doc := applicationDocument{
		ID:         primitive.NewObjectID(),
		StudentID:  primitive.NewObjectID(),
		JobID:      primitive.NewObjectID(),
		Status:     " Accepted ",
		ResumeLink: "https://drive.google.com/cv",
	}
	got := doc.domain()
	if got.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %q", got.Status)
	}
	if got.StudentID != toID(doc.StudentID) || got.JobID != toID(doc.JobID) || got.ResumeLink != doc.ResumeLink {
		t.Fatalf("unexpected application %+v", got)
	}
}

func TestEmailLookupAndIndexIgnoreCase(t *testing.T) {
	pattern := emailPattern("a.b+c@x.com")
	if pattern.Pattern != `^a\.b\+c@x\.com$` || pattern.Options != "i" {
		t.Fatalf("unexpected pattern %+v", pattern)
	}
	opts := emailIndexOptions()
	if opts.Unique == nil || !*opts.Unique {
		t.Fatal("expected unique email index")
	}
	if opts.Collation == nil || opts.Collation.Strength != 2 {
		t.Fatalf("expected case-insensitive collation, got %+v", opts.Collation)
	}
}
