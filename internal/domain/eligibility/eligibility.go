package eligibility

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Candidate is the part of a student profile that takes part in eligibility checks.
type Candidate struct {
	CGPA       float64
	Experience int
	Branch     string
}

// Requirements are the thresholds a job posting declares. An empty
// RequiredBranches slice means the posting is open to every branch.
type Requirements struct {
	MinCGPA          float64
	MinExperience    int
	RequiredBranches []string
}

type Gap[T any] struct {
	Required T `json:"required"`
	Current  T `json:"current"`
}

type BranchGap struct {
	Required []string `json:"required"`
	Current  string   `json:"current"`
}

type Missing struct {
	CGPA       *Gap[float64] `json:"cgpa,omitempty"`
	Experience *Gap[int]     `json:"experience,omitempty"`
	Branch     *BranchGap    `json:"branch,omitempty"`
}

type Result struct {
	Eligible bool     `json:"isEligible"`
	Reasons  []string `json:"reasons"`
	Missing  Missing  `json:"missingRequirements"`
}

// Evaluate compares a candidate against job requirements. Every criterion is
// checked so the result lists all unmet requirements in the order CGPA,
// experience, branch.
func Evaluate(c Candidate, req Requirements) Result {
	result := Result{Eligible: true, Reasons: []string{}}

	cgpa := finite(c.CGPA)
	minCGPA := finite(req.MinCGPA)
	if cgpa < minCGPA {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf("CGPA requirement not met (Required: %s, Current: %s)", formatNumber(minCGPA), formatNumber(cgpa)))
		result.Missing.CGPA = &Gap[float64]{Required: minCGPA, Current: cgpa}
	}

	if c.Experience < req.MinExperience {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf("Experience requirement not met (Required: %d months, Current: %d months)", req.MinExperience, c.Experience))
		result.Missing.Experience = &Gap[int]{Required: req.MinExperience, Current: c.Experience}
	}

	if len(req.RequiredBranches) > 0 && !branchAllowed(c.Branch, req.RequiredBranches) {
		result.Eligible = false
		result.Reasons = append(result.Reasons, fmt.Sprintf("Branch requirement not met (Required: %s, Current: %s)", strings.Join(req.RequiredBranches, ", "), c.Branch))
		result.Missing.Branch = &BranchGap{Required: append([]string(nil), req.RequiredBranches...), Current: c.Branch}
	}

	return result
}

// Summary renders the result as a message suitable for showing to the candidate.
func (r Result) Summary() string {
	if r.Eligible {
		return "You are eligible to apply for this position"
	}
	if len(r.Reasons) == 1 {
		return r.Reasons[0]
	}
	var b strings.Builder
	b.WriteString("Multiple requirements not met:")
	for _, reason := range r.Reasons {
		b.WriteString("\n• ")
		b.WriteString(reason)
	}
	return b.String()
}

// FilterEligible returns the items whose requirements the candidate meets,
// preserving order.
func FilterEligible[T any](c Candidate, items []T, requirements func(T) Requirements) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Evaluate(c, requirements(item)).Eligible {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeBranch is the comparison form of a branch name.
func NormalizeBranch(branch string) string {
	return strings.ToLower(strings.TrimSpace(branch))
}

func branchAllowed(branch string, required []string) bool {
	candidate := NormalizeBranch(branch)
	for _, allowed := range required {
		if NormalizeBranch(allowed) == candidate {
			return true
		}
	}
	return false
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
