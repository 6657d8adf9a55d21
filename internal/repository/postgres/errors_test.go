package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"placement/internal/common"
)

func TestMapError_UniqueViolationFromEitherDriver(t *testing.T) {
	cases := []error{
		&pgconn.PgError{Code: "23505", ConstraintName: "applications_student_job_key"},
		&pq.Error{Code: "23505"},
		fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
	}
	for _, err := range cases {
		if got := mapError(err, "failed"); !common.Is(got, common.CodeConflict) {
			t.Fatalf("expected conflict for %v, got %v", err, got)
		}
	}
}

func TestMapError_Unavailable(t *testing.T) {
	cases := []error{
		driver.ErrBadConn,
		context.DeadlineExceeded,
		&pgconn.PgError{Code: "08006"},
		&pq.Error{Code: "08001"},
	}
	for _, err := range cases {
		got := mapError(err, "failed")
		if !common.Is(got, common.CodeUnavailable) {
			t.Fatalf("expected storage_unavailable for %v, got %v", err, got)
		}
	}
}

func TestMapError_Internal(t *testing.T) {
	if got := mapError(errors.New("syntax"), "failed"); !common.Is(got, common.CodeInternal) {
		t.Fatalf("expected internal error, got %v", got)
	}
	if mapError(nil, "failed") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestListEncoding(t *testing.T) {
	branches := []string{"Computer Science", "Information Technology"}
	encoded := encodeList(branches)
	if encoded != `["Computer Science","Information Technology"]` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	if !reflect.DeepEqual(decodeList(encoded), branches) {
		t.Fatalf("expected round trip, got %v", decodeList(encoded))
	}
	if encodeList(nil) != "[]" {
		t.Fatalf("expected empty array, got %s", encodeList(nil))
	}
	for _, raw := range []string{"", "   ", "not json"} {
		got := decodeList(raw)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list for %q, got %#v", raw, got)
		}
	}
}
