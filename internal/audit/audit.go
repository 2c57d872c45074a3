package audit

import (
	"time"
)

// Status is the lifecycle state of an audit.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

var validStatuses = map[Status]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusReview:     true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return validStatuses[s] }

// ScoringConfig maps a compliance outcome to a numeric score. A nil value
// means the outcome carries no score.
type ScoringConfig map[string]*int

// DefaultScoringConfig is applied to audits created without one.
func DefaultScoringConfig() ScoringConfig {
	score := func(n int) *int { return &n }
	return ScoringConfig{
		"compliant":           score(5),
		"partially_compliant": score(3),
		"non_compliant":       score(0),
		"not_applicable":      nil,
	}
}

// ScoreFor returns the configured score for a compliance outcome, if any.
func (c ScoringConfig) ScoreFor(compliance string) (int, bool) {
	v, ok := c[compliance]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Audit is a scoped, time-boxed evaluation against the COBIT catalogue.
type Audit struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Status         Status        `json:"status"`
	StartDate      *time.Time    `json:"start_date,omitempty"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	ScopeProcesses []string      `json:"scope_processes"`
	ScoringConfig  ScoringConfig `json:"scoring_config"`
	CreatedBy      string        `json:"created_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ListFilter selects audits. Zero-value fields do not constrain the result.
type ListFilter struct {
	// Status matches exactly unless empty or StatusAll.
	Status    string
	CreatedBy string
	// StartFrom and StartTo bound start_date inclusively; either may be nil.
	StartFrom *time.Time
	StartTo   *time.Time
}
