package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/jobs"
)

// Dispatcher delivers job events to a fixed set of webhook URLs.
type Dispatcher struct {
	urls   []string
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher for the given webhook URLs.
func NewDispatcher(urls []string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		urls: urls,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// EventFor builds the event describing a job in a terminal state.
func EventFor(j *jobs.Job, at time.Time) Event {
	e := Event{
		Type:       EventJobCompleted,
		JobID:      j.ID,
		Status:     string(j.Status),
		Progress:   j.Progress,
		Audits:     len(j.Results),
		Error:      j.Error,
		CreatedBy:  j.CreatedBy,
		OccurredAt: at.UTC(),
	}
	if j.Status == jobs.StatusFailed {
		e.Type = EventJobFailed
	}
	for _, r := range j.Results {
		if r.Error != "" {
			e.Failed++
		}
	}
	return e
}

// JobFinished implements jobs.Notifier. Delivery failures are logged.
func (d *Dispatcher) JobFinished(ctx context.Context, j *jobs.Job) {
	if err := d.Dispatch(ctx, EventFor(j, d.now())); err != nil {
		d.logger.Warn("delivering job webhook", zap.String("job_id", j.ID), zap.Error(err))
	}
}

// Dispatch posts e to every webhook. All URLs are attempted; the returned
// error joins the individual failures.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	var errs []error
	for _, url := range d.urls {
		if err := d.SendWebhook(ctx, url, payload); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
