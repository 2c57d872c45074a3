// Package jobs runs batch report generation in the background.
package jobs

import (
	"time"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
)

// Status is the lifecycle state of a report job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the job will not change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Filters selects the audits a job renders. Dates use YYYY-MM-DD.
type Filters struct {
	Status    string `json:"status,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	DateFrom  string `json:"date_from,omitempty"`
	DateTo    string `json:"date_to,omitempty"`
}

// ListFilter resolves the filters into an audit query.
func (f Filters) ListFilter() (audit.ListFilter, error) {
	return audit.ParseFilter(f.Status, f.CreatedBy, f.DateFrom, f.DateTo)
}

// Result is the outcome for one audit: a download URL or an error.
type Result struct {
	AuditID string `json:"audit_id"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Job is a batch report request.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Filters   Filters   `json:"filters"`
	Progress  int       `json:"progress"`
	Results   []Result  `json:"result_urls"`
	Error     string    `json:"error,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
