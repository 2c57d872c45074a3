package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("report job not found")

const selectJob = `
	SELECT id, status, filters, progress, result_urls, error, created_by, created_at, updated_at
	FROM report_jobs`

// Store persists report jobs.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Create inserts a pending job with progress 0.
func (s *Store) Create(ctx context.Context, filters Filters, createdBy string) (*Job, error) {
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("encoding filters: %w", err)
	}

	id := uuid.New().String()
	now := db.FormatTime(s.now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO report_jobs (id, status, filters, progress, result_urls, error, created_by, created_at, updated_at)
		VALUES (?, ?, ?, 0, '[]', '', ?, ?, ?)`,
		id, string(StatusPending), string(filtersJSON), createdBy, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting report job: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID retrieves a job snapshot.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, selectJob+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting report job: %w", err)
	}
	return j, nil
}

// ListPending returns pending jobs oldest first.
func (s *Store) ListPending(ctx context.Context) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx, selectJob+" WHERE status = ? ORDER BY created_at ASC, rowid ASC", string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("listing pending jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report job: %w", err)
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// Claim moves a job from pending to processing. It reports false when the
// job was no longer pending, meaning another worker already took it.
func (s *Store) Claim(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE report_jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(StatusProcessing), db.FormatTime(s.now()), id, string(StatusPending),
	)
	if err != nil {
		return false, fmt.Errorf("claiming report job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming report job: %w", err)
	}
	return n == 1, nil
}

// UpdateProgress records per-audit results. Progress never decreases.
func (s *Store) UpdateProgress(ctx context.Context, id string, progress int, results []Result) error {
	resultsJSON, err := encodeResults(results)
	if err != nil {
		return err
	}
	return s.exec(ctx, id, `
		UPDATE report_jobs SET progress = MAX(progress, ?), result_urls = ?, updated_at = ?
		WHERE id = ?`,
		clamp(progress), resultsJSON, db.FormatTime(s.now()), id,
	)
}

// Complete marks the job completed at 100%.
func (s *Store) Complete(ctx context.Context, id string, results []Result) error {
	resultsJSON, err := encodeResults(results)
	if err != nil {
		return err
	}
	return s.exec(ctx, id, `
		UPDATE report_jobs SET status = ?, progress = 100, result_urls = ?, updated_at = ?
		WHERE id = ?`,
		string(StatusCompleted), resultsJSON, db.FormatTime(s.now()), id,
	)
}

// Fail marks the job failed with a message. Progress is left as it was.
func (s *Store) Fail(ctx context.Context, id, message string) error {
	return s.exec(ctx, id,
		`UPDATE report_jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(StatusFailed), message, db.FormatTime(s.now()), id,
	)
}

func (s *Store) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating report job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func encodeResults(results []Result) (string, error) {
	if results == nil {
		results = []Result{}
	}
	b, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	return string(b), nil
}

func clamp(progress int) int {
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	}
	return progress
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*Job, error) {
	var (
		j                    Job
		status               string
		filters, results     string
		createdAt, updatedAt string
	)
	err := sc.Scan(&j.ID, &status, &filters, &j.Progress, &results, &j.Error, &j.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	j.Status = Status(status)
	if err := json.Unmarshal([]byte(filters), &j.Filters); err != nil {
		return nil, fmt.Errorf("decoding filters: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &j.Results); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	if j.Results == nil {
		j.Results = []Result{}
	}
	j.CreatedAt, _ = db.ParseTime(createdAt)
	j.UpdatedAt, _ = db.ParseTime(updatedAt)
	return &j, nil
}
