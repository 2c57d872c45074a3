package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// ErrNotFound is returned when an audit id does not exist.
var ErrNotFound = errors.New("audit not found")

var columns = []string{
	"id", "name", "description", "status", "start_date", "end_date",
	"scope_processes", "scoring_config", "created_by", "created_at",
}

// Store provides CRUD operations for audits.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a new audit. If a.ID is empty a UUID is generated.
func (s *Store) Create(ctx context.Context, a Audit) (*Audit, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("audit name is required")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = StatusPlanned
	}
	if !a.Status.Valid() {
		return nil, fmt.Errorf("invalid audit status %q", a.Status)
	}
	if a.ScopeProcesses == nil {
		a.ScopeProcesses = []string{}
	}
	if a.ScoringConfig == nil {
		a.ScoringConfig = DefaultScoringConfig()
	}
	a.CreatedAt = time.Now().UTC()

	scope, err := json.Marshal(a.ScopeProcesses)
	if err != nil {
		return nil, fmt.Errorf("marshalling scope: %w", err)
	}
	scoring, err := json.Marshal(a.ScoringConfig)
	if err != nil {
		return nil, fmt.Errorf("marshalling scoring config: %w", err)
	}

	query, args, err := sq.Insert("audits").Columns(columns...).Values(
		a.ID, a.Name, a.Description, string(a.Status),
		db.NullDate(a.StartDate), db.NullDate(a.EndDate),
		string(scope), string(scoring), a.CreatedBy, db.FormatTime(a.CreatedAt),
	).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting audit: %w", err)
	}
	return &a, nil
}

// GetByID retrieves a single audit.
func (s *Store) GetByID(ctx context.Context, id string) (*Audit, error) {
	query, args, err := sq.Select(columns...).From("audits").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	a, err := scanAudit(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting audit: %w", err)
	}
	return a, nil
}

// List returns the audits matching the filter in creation order.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Audit, error) {
	q := sq.Select(columns...).From("audits")

	if filter.Status != "" && filter.Status != StatusAll {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if filter.CreatedBy != "" {
		q = q.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.StartFrom != nil {
		q = q.Where(sq.GtOrEq{"start_date": filter.StartFrom.Format(db.DateFormat)})
	}
	if filter.StartTo != nil {
		q = q.Where(sq.LtOrEq{"start_date": filter.StartTo.Format(db.DateFormat)})
	}

	query, args, err := q.OrderBy("created_at ASC", "rowid ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building audit query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audits: %w", err)
	}
	defer rows.Close()

	var audits []Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit: %w", err)
		}
		audits = append(audits, *a)
	}
	return audits, rows.Err()
}

// UpdateStatus moves an audit to a new lifecycle status.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid audit status %q", status)
	}
	query, args, err := sq.Update("audits").Set("status", string(status)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}
	return s.execOne(ctx, id, query, args)
}

// Delete removes an audit together with its assessments and findings.
func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("audits").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	return s.execOne(ctx, id, query, args)
}

func (s *Store) execOne(ctx context.Context, id, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating audit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating audit: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAudit(sc scanner) (*Audit, error) {
	var (
		a                    Audit
		status               string
		startDate, endDate   sql.NullString
		scopeJSON, scoreJSON string
		createdAt            string
	)

	err := sc.Scan(
		&a.ID, &a.Name, &a.Description, &status, &startDate, &endDate,
		&scopeJSON, &scoreJSON, &a.CreatedBy, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = Status(status)
	a.StartDate = db.ScanDate(startDate)
	a.EndDate = db.ScanDate(endDate)
	a.CreatedAt, _ = db.ParseTime(createdAt)

	if err := json.Unmarshal([]byte(scopeJSON), &a.ScopeProcesses); err != nil || a.ScopeProcesses == nil {
		a.ScopeProcesses = []string{}
	}
	if err := json.Unmarshal([]byte(scoreJSON), &a.ScoringConfig); err != nil || a.ScoringConfig == nil {
		a.ScoringConfig = ScoringConfig{}
	}

	return &a, nil
}
