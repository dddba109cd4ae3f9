package models

// IssueKind classifies a visual defect found in a generated image
type IssueKind string

const (
	IssueTextOverflow       IssueKind = "text-overflow"
	IssueLowContrast        IssueKind = "low-contrast"
	IssueMisalignment       IssueKind = "misalignment"
	IssueOverlap            IssueKind = "overlap"
	IssueBrokenLayout       IssueKind = "broken-layout"
	IssueBlur               IssueKind = "blur"
	IssueStyleInconsistency IssueKind = "style-inconsistency"
	IssueOther              IssueKind = "other"
)

// IssueKinds lists every defect kind the quality rubric enumerates.
var IssueKinds = []IssueKind{
	IssueTextOverflow,
	IssueLowContrast,
	IssueMisalignment,
	IssueOverlap,
	IssueBrokenLayout,
	IssueBlur,
	IssueStyleInconsistency,
	IssueOther,
}

// Severity of a quality issue
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityRank orders severities for prompt composition, high first.
func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// QualityIssue is a single finding from the quality gate rubric.
type QualityIssue struct {
	Kind        IssueKind `json:"kind"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Fix         string    `json:"fix"`
}

// Rating is the overall quality rating of a generated image
type Rating string

const (
	RatingGood Rating = "good"
	RatingFair Rating = "fair"
	RatingPoor Rating = "poor"
)

// QualityVerdict is the quality gate's assessment of one candidate image.
// Produced fresh per invocation, never mutated.
type QualityVerdict struct {
	Rating             Rating         `json:"rating"`
	Issues             []QualityIssue `json:"issues"`
	RegenerationNeeded bool           `json:"regeneration_needed"`
}

// Accepted reports whether the candidate passes the gate. A fair rating
// with only low/medium issues is accepted to bound total attempts.
func (v *QualityVerdict) Accepted() bool {
	return !v.RegenerationNeeded
}

// Normalize recomputes the regeneration flag from the severity rule:
// regeneration is needed whenever any issue is high severity or the
// overall rating is poor.
func (v *QualityVerdict) Normalize() {
	v.RegenerationNeeded = v.Rating == RatingPoor
	for _, issue := range v.Issues {
		if issue.Severity == SeverityHigh {
			v.RegenerationNeeded = true
			break
		}
	}
}

// FixesBySeverity returns the issue fix instructions ordered by descending
// severity, preserving the original finding order within each severity.
func (v *QualityVerdict) FixesBySeverity() []string {
	var fixes []string
	for rank := 0; rank <= 2; rank++ {
		for _, issue := range v.Issues {
			if severityRank(issue.Severity) == rank && issue.Fix != "" {
				fixes = append(fixes, issue.Fix)
			}
		}
	}
	return fixes
}

// LoopState is the terminal state of a regeneration loop run
type LoopState string

const (
	StateAccepted  LoopState = "accepted"
	StateExhausted LoopState = "exhausted"
	StateCancelled LoopState = "cancelled"
)

// Attempt records one generation attempt and its verdict. The attempt
// sequence per target image is append-only.
type Attempt struct {
	Index   int            `json:"index"`
	Prompt  string         `json:"prompt"`
	Image   []byte         `json:"-"`
	Verdict QualityVerdict `json:"verdict"`
}

// RegenerationReport is the full audit trail of a regeneration loop run.
// Only the final attempt is surfaced as the result, but every attempt
// is retained.
type RegenerationReport struct {
	State      LoopState `json:"state"`
	Attempts   []Attempt `json:"attempts"`
	BestEffort bool      `json:"best_effort"`
}

// Final returns the last attempt, which carries the surfaced image.
func (r *RegenerationReport) Final() *Attempt {
	if len(r.Attempts) == 0 {
		return nil
	}
	return &r.Attempts[len(r.Attempts)-1]
}
