// Package notifications posts batch report job outcomes to webhook
// subscribers.
package notifications

import "time"

// EventType identifies what happened to a job.
type EventType string

const (
	EventJobCompleted EventType = "report_job.completed"
	EventJobFailed    EventType = "report_job.failed"
)

// Event is the JSON body posted to each webhook.
type Event struct {
	Type       EventType `json:"type"`
	JobID      string    `json:"job_id"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	Audits     int       `json:"audits"`
	Failed     int       `json:"failed_audits"`
	Error      string    `json:"error,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
