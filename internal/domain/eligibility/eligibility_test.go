package eligibility

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

var csStudent = Candidate{CGPA: 8.0, Experience: 0, Branch: "Computer Science"}

func TestEvaluate_EligibleCandidate(t *testing.T) {
	result := Evaluate(csStudent, Requirements{
		MinCGPA:          7.5,
		MinExperience:    0,
		RequiredBranches: []string{"Computer Science", "Information Technology"},
	})
	if !result.Eligible {
		t.Fatalf("expected eligible, got reasons %v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", result.Reasons)
	}
	if result.Missing.CGPA != nil || result.Missing.Experience != nil || result.Missing.Branch != nil {
		t.Fatalf("expected no missing requirements, got %+v", result.Missing)
	}
}

func TestEvaluate_CGPABelowMinimum(t *testing.T) {
	result := Evaluate(csStudent, Requirements{
		MinCGPA:          9.0,
		RequiredBranches: []string{"Computer Science", "Information Technology"},
	})
	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	want := []string{"CGPA requirement not met (Required: 9, Current: 8)"}
	if !reflect.DeepEqual(result.Reasons, want) {
		t.Fatalf("expected reasons %v, got %v", want, result.Reasons)
	}
	if result.Missing.CGPA == nil || result.Missing.CGPA.Required != 9 || result.Missing.CGPA.Current != 8 {
		t.Fatalf("expected cgpa gap {9 8}, got %+v", result.Missing.CGPA)
	}
}

func TestEvaluate_BoundaryIsInclusive(t *testing.T) {
	result := Evaluate(Candidate{CGPA: 7.5, Experience: 6, Branch: "ece"}, Requirements{MinCGPA: 7.5, MinExperience: 6})
	if !result.Eligible {
		t.Fatalf("expected equal values to pass, got %v", result.Reasons)
	}
	result = Evaluate(Candidate{CGPA: 6.5, Experience: 6}, Requirements{MinCGPA: 7.5, MinExperience: 6})
	if result.Eligible || result.Missing.CGPA == nil {
		t.Fatal("expected one unit below to fail with cgpa gap")
	}
}

func TestEvaluate_EmptyBranchesIsWildcard(t *testing.T) {
	for _, branch := range []string{"", "Mechanical", "  underwater basket weaving "} {
		result := Evaluate(Candidate{CGPA: 10, Branch: branch}, Requirements{})
		if !result.Eligible {
			t.Fatalf("expected branch %q to pass wildcard, got %v", branch, result.Reasons)
		}
	}
}

func TestEvaluate_BranchIsCaseAndSpaceInsensitive(t *testing.T) {
	result := Evaluate(Candidate{Branch: "  computer SCIENCE "}, Requirements{RequiredBranches: []string{" Computer Science"}})
	if !result.Eligible {
		t.Fatalf("expected normalized branch match, got %v", result.Reasons)
	}
}

func TestEvaluate_ReportsAllFailuresInOrder(t *testing.T) {
	result := Evaluate(Candidate{CGPA: 6, Experience: 2, Branch: "Civil"}, Requirements{
		MinCGPA:          7.25,
		MinExperience:    12,
		RequiredBranches: []string{"Computer Science", "IT"},
	})
	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	want := []string{
		"CGPA requirement not met (Required: 7.25, Current: 6)",
		"Experience requirement not met (Required: 12 months, Current: 2 months)",
		"Branch requirement not met (Required: Computer Science, IT, Current: Civil)",
	}
	if !reflect.DeepEqual(result.Reasons, want) {
		t.Fatalf("expected reasons %v, got %v", want, result.Reasons)
	}
	if result.Missing.Experience == nil || result.Missing.Experience.Required != 12 || result.Missing.Experience.Current != 2 {
		t.Fatalf("unexpected experience gap %+v", result.Missing.Experience)
	}
	if result.Missing.Branch == nil || result.Missing.Branch.Current != "Civil" {
		t.Fatalf("unexpected branch gap %+v", result.Missing.Branch)
	}
}

func TestEvaluate_NonFiniteNumbersDegradeToZero(t *testing.T) {
	result := Evaluate(Candidate{CGPA: math.NaN()}, Requirements{MinCGPA: 5})
	if result.Eligible {
		t.Fatal("expected NaN cgpa not to grant eligibility")
	}
	if result.Missing.CGPA.Current != 0 {
		t.Fatalf("expected current cgpa 0, got %v", result.Missing.CGPA.Current)
	}
	result = Evaluate(Candidate{CGPA: 0}, Requirements{MinCGPA: math.Inf(1)})
	if !result.Eligible {
		t.Fatalf("expected infinite minimum to degrade to 0, got %v", result.Reasons)
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	req := Requirements{MinCGPA: 9, RequiredBranches: []string{"IT"}}
	first := Evaluate(csStudent, req)
	second := Evaluate(csStudent, req)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	first.Missing.Branch.Required[0] = "mutated"
	if req.RequiredBranches[0] != "IT" {
		t.Fatal("expected requirements to be left untouched")
	}
}

func TestFilterEligible(t *testing.T) {
	jobs := []Requirements{
		{MinCGPA: 7},
		{MinCGPA: 9},
		{RequiredBranches: []string{"Mechanical"}},
		{RequiredBranches: nil},
	}
	eligible := FilterEligible(csStudent, jobs, func(r Requirements) Requirements { return r })
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible jobs, got %d", len(eligible))
	}
	if eligible[0].MinCGPA != 7 || eligible[1].RequiredBranches != nil {
		t.Fatalf("unexpected filter output %+v", eligible)
	}
}

func TestSummary(t *testing.T) {
	if msg := Evaluate(csStudent, Requirements{}).Summary(); !strings.Contains(msg, "eligible") {
		t.Fatalf("unexpected summary %q", msg)
	}
	single := Evaluate(csStudent, Requirements{MinCGPA: 9})
	if single.Summary() != single.Reasons[0] {
		t.Fatalf("expected single reason summary, got %q", single.Summary())
	}
	multi := Evaluate(csStudent, Requirements{MinCGPA: 9, MinExperience: 3})
	if !strings.HasPrefix(multi.Summary(), "Multiple requirements not met:") {
		t.Fatalf("unexpected summary %q", multi.Summary())
	}
}
