package assessment

import (
	"time"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
)

// Compliance is the evaluated outcome of a control. The zero value means
// the control has not been evaluated yet.
type Compliance string

const (
	ComplianceUnset    Compliance = ""
	Compliant          Compliance = "compliant"
	PartiallyCompliant Compliance = "partially_compliant"
	NonCompliant       Compliance = "non_compliant"
	NotApplicable      Compliance = "not_applicable"
)

// Valid reports whether c is a known outcome (unset included).
func (c Compliance) Valid() bool {
	switch c {
	case ComplianceUnset, Compliant, PartiallyCompliant, NonCompliant, NotApplicable:
		return true
	}
	return false
}

// Status tracks the evaluator's progress on one assessment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Assessment is the recorded outcome of evaluating one control within one audit.
type Assessment struct {
	ID              string         `json:"id"`
	AuditID         string         `json:"audit_id"`
	ControlID       string         `json:"control_id"`
	Control         *cobit.Control `json:"control,omitempty"`
	Status          Status         `json:"status"`
	Compliance      Compliance     `json:"compliance"`
	Score           *int           `json:"score,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	EvidenceSummary string         `json:"evidence_summary,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Evaluation is a human evaluator's update to an assessment.
type Evaluation struct {
	Status          Status     `json:"status"`
	Compliance      Compliance `json:"compliance"`
	Score           *int       `json:"score"`
	Notes           string     `json:"notes"`
	EvidenceSummary string     `json:"evidence_summary"`
}
