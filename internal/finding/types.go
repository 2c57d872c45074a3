package finding

import (
	"time"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

// Severity classifies the seriousness of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists severities from most to least serious.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// Status is the remediation state of a finding.
type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusActionPlanned Status = "action_planned"
	StatusInRemediation Status = "in_remediation"
	StatusVerification  Status = "verification"
	StatusClosed        Status = "closed"
)

var statusOrder = map[Status]int{
	StatusOpen:          0,
	StatusInvestigating: 1,
	StatusActionPlanned: 2,
	StatusInRemediation: 3,
	StatusVerification:  4,
	StatusClosed:        5,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// RiskLevel is the banding of a finding's likelihood × impact score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// LevelForScore bands a risk score: ≥20 critical, ≥12 high, ≥6 medium, else low.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 20:
		return RiskCritical
	case score >= 12:
		return RiskHigh
	case score >= 6:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Finding is a recorded deficiency raised during an audit.
type Finding struct {
	ID          string      `json:"id"`
	AuditID     string      `json:"audit_id"`
	ControlID   string      `json:"control_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Severity    Severity    `json:"severity"`
	Likelihood  *int        `json:"likelihood,omitempty"`
	Impact      *int        `json:"impact,omitempty"`
	Status      Status      `json:"status"`
	ActionPlan  string      `json:"action_plan,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	OwnerID     string      `json:"owner_id,omitempty"`
	Owner       *users.User `json:"owner,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RiskScore is likelihood × impact, or 0 when either is unknown. It is
// derived on read and never stored.
func (f Finding) RiskScore() int {
	if f.Likelihood == nil || f.Impact == nil {
		return 0
	}
	return *f.Likelihood * *f.Impact
}

// RiskLevel bands RiskScore.
func (f Finding) RiskLevel() RiskLevel {
	return LevelForScore(f.RiskScore())
}

// OwnerName returns the owner's display name, or "" when unassigned.
func (f Finding) OwnerName() string {
	if f.Owner == nil {
		return ""
	}
	return f.Owner.Name
}

// view adds the derived risk fields to the JSON representation.
type view struct {
	Finding
	RiskScore int       `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
}

func withRisk(f Finding) view {
	return view{Finding: f, RiskScore: f.RiskScore(), RiskLevel: f.RiskLevel()}
}
