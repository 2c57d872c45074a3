package finding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

// ErrNotFound is returned when a finding id does not exist.
var ErrNotFound = errors.New("finding not found")

// ErrClosed is returned when moving a closed finding back to an earlier status.
var ErrClosed = errors.New("finding is closed")

const selectJoined = `
	SELECT f.id, f.audit_id, f.control_id, f.title, f.description, f.severity,
	       f.likelihood, f.impact, f.status, f.action_plan, f.due_date, f.closed_at,
	       f.owner_id, f.created_at, u.id, u.name, u.email, u.role
	FROM findings f
	LEFT JOIN users u ON u.id = f.owner_id`

// Store provides persistence for findings.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Create inserts a finding in the open state.
func (s *Store) Create(ctx context.Context, f Finding) (*Finding, error) {
	if f.Title == "" {
		return nil, fmt.Errorf("finding title is required")
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Severity == "" {
		f.Severity = SeverityMedium
	}
	if !f.Severity.Valid() {
		return nil, fmt.Errorf("invalid severity %q", f.Severity)
	}
	if err := checkRange("likelihood", f.Likelihood); err != nil {
		return nil, err
	}
	if err := checkRange("impact", f.Impact); err != nil {
		return nil, err
	}
	f.Status = StatusOpen
	f.ClosedAt = nil
	f.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO findings (
			id, audit_id, control_id, title, description, severity,
			likelihood, impact, status, action_plan, due_date, owner_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.AuditID, nullString(f.ControlID), f.Title, f.Description, string(f.Severity),
		nullInt(f.Likelihood), nullInt(f.Impact), string(f.Status), f.ActionPlan,
		db.NullDate(f.DueDate), nullString(f.OwnerID), db.FormatTime(f.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting finding: %w", err)
	}
	return s.GetByID(ctx, f.ID)
}

// GetByID retrieves one finding with its owner.
func (s *Store) GetByID(ctx context.Context, id string) (*Finding, error) {
	f, err := scanFinding(s.db.QueryRowContext(ctx, selectJoined+" WHERE f.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting finding: %w", err)
	}
	return f, nil
}

// ListByAudit returns the audit's findings in the order they were raised.
func (s *Store) ListByAudit(ctx context.Context, auditID string) ([]Finding, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+" WHERE f.audit_id = ? ORDER BY f.created_at, f.rowid", auditID)
	if err != nil {
		return nil, fmt.Errorf("listing findings: %w", err)
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// UpdateStatus moves a finding to a new status. closed_at is stamped on the
// first transition into closed and is never changed afterwards.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) (*Finding, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid finding status %q", status)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusClosed && status != StatusClosed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, id)
	}

	var closedAt sql.NullString
	if status == StatusClosed {
		closedAt = sql.NullString{String: db.FormatTime(s.now()), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE findings SET status = ?, closed_at = COALESCE(closed_at, ?)
		WHERE id = ?`,
		string(status), closedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating finding status: %w", err)
	}
	return s.GetByID(ctx, id)
}

// UpdateActionPlan sets the remediation plan and its due date.
func (s *Store) UpdateActionPlan(ctx context.Context, id, plan string, due *time.Time) (*Finding, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE findings SET action_plan = ?, due_date = ? WHERE id = ?`,
		plan, db.NullDate(due), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating action plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.GetByID(ctx, id)
}

func checkRange(field string, v *int) error {
	if v != nil && (*v < 1 || *v > 5) {
		return fmt.Errorf("%s must be between 1 and 5, got %d", field, *v)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFinding(sc scanner) (*Finding, error) {
	var (
		f                           Finding
		controlID, ownerID          sql.NullString
		severity, status, createdAt string
		likelihood, impact          sql.NullInt64
		dueDate, closedAt           sql.NullString
		uID, uName, uEmail, uRole   sql.NullString
	)

	err := sc.Scan(
		&f.ID, &f.AuditID, &controlID, &f.Title, &f.Description, &severity,
		&likelihood, &impact, &status, &f.ActionPlan, &dueDate, &closedAt,
		&ownerID, &createdAt, &uID, &uName, &uEmail, &uRole,
	)
	if err != nil {
		return nil, err
	}

	f.ControlID = controlID.String
	f.OwnerID = ownerID.String
	f.Severity = Severity(severity)
	f.Status = Status(status)
	if likelihood.Valid {
		v := int(likelihood.Int64)
		f.Likelihood = &v
	}
	if impact.Valid {
		v := int(impact.Int64)
		f.Impact = &v
	}
	f.DueDate = db.ScanDate(dueDate)
	f.ClosedAt = db.ScanTime(closedAt)
	f.CreatedAt, _ = db.ParseTime(createdAt)

	if uID.Valid {
		f.Owner = &users.User{
			ID:    uID.String,
			Name:  uName.String,
			Email: uEmail.String,
			Role:  users.Role(uRole.String),
		}
	}
	return &f, nil
}
