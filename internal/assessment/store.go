package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// ErrNotFound is returned when an assessment id does not exist.
var ErrNotFound = errors.New("assessment not found")

const selectJoined = `
	SELECT s.id, s.audit_id, s.control_id, s.status, s.compliance, s.score,
	       s.notes, s.evidence_summary, s.updated_at,
	       c.id, c.code, c.statement, c.process_id,
	       p.id, p.code, p.name, p.domain
	FROM assessments s
	LEFT JOIN controls c ON c.id = s.control_id
	LEFT JOIN processes p ON p.id = c.process_id`

// Store provides persistence for assessments.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateForScope creates one pending assessment per control for the audit.
// Controls that already have an assessment in this audit are skipped, so
// calling it again after widening the scope only adds the new controls.
// It returns the number of assessments created.
func (s *Store) CreateForScope(ctx context.Context, auditID string, controls []cobit.Control) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := db.FormatTime(time.Now())
	created := 0
	for _, c := range controls {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO assessments (id, audit_id, control_id, status, compliance, updated_at)
			VALUES (?, ?, ?, 'pending', '', ?)
			ON CONFLICT(audit_id, control_id) DO NOTHING`,
			uuid.New().String(), auditID, c.ID, now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting assessment for control %s: %w", c.Code, err)
		}
		n, _ := res.RowsAffected()
		created += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing assessments: %w", err)
	}
	return created, nil
}

// GetByID retrieves one assessment with its control and process.
func (s *Store) GetByID(ctx context.Context, id string) (*Assessment, error) {
	a, err := scanAssessment(s.db.QueryRowContext(ctx, selectJoined+" WHERE s.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting assessment: %w", err)
	}
	return a, nil
}

// ListByAudit returns the audit's assessments ordered by control code.
func (s *Store) ListByAudit(ctx context.Context, auditID string) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx, selectJoined+" WHERE s.audit_id = ? ORDER BY c.code, s.rowid", auditID)
	if err != nil {
		return nil, fmt.Errorf("listing assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Evaluate records an evaluator's outcome. When no explicit score is given
// the audit's scoring configuration supplies one for the chosen outcome.
func (s *Store) Evaluate(ctx context.Context, id string, ev Evaluation) (*Assessment, error) {
	if !ev.Compliance.Valid() {
		return nil, fmt.Errorf("invalid compliance %q", ev.Compliance)
	}
	if ev.Score != nil && (*ev.Score < 0 || *ev.Score > 5) {
		return nil, fmt.Errorf("score must be between 0 and 5, got %d", *ev.Score)
	}
	if ev.Status == "" {
		ev.Status = StatusInProgress
		if ev.Compliance != ComplianceUnset {
			ev.Status = StatusCompleted
		}
	}
	if !ev.Status.Valid() {
		return nil, fmt.Errorf("invalid assessment status %q", ev.Status)
	}

	var scoringJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT a.scoring_config FROM assessments s
		JOIN audits a ON a.id = s.audit_id
		WHERE s.id = ?`, id,
	).Scan(&scoringJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading scoring config: %w", err)
	}

	score := sql.NullInt64{}
	if ev.Score != nil {
		score = sql.NullInt64{Int64: int64(*ev.Score), Valid: true}
	} else {
		var scoring audit.ScoringConfig
		if err := json.Unmarshal([]byte(scoringJSON), &scoring); err == nil {
			if v, ok := scoring.ScoreFor(string(ev.Compliance)); ok {
				score = sql.NullInt64{Int64: int64(v), Valid: true}
			}
		}
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE assessments
		SET status = ?, compliance = ?, score = ?, notes = ?, evidence_summary = ?, updated_at = ?
		WHERE id = ?`,
		string(ev.Status), string(ev.Compliance), score, ev.Notes, ev.EvidenceSummary,
		db.FormatTime(time.Now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating assessment: %w", err)
	}
	return s.GetByID(ctx, id)
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(sc scanner) (*Assessment, error) {
	var (
		a                          Assessment
		status, compliance         string
		score                      sql.NullInt64
		updatedAt                  string
		cID, cCode, cStmt, cProcID sql.NullString
		pID, pCode, pName, pDomain sql.NullString
	)

	err := sc.Scan(
		&a.ID, &a.AuditID, &a.ControlID, &status, &compliance, &score,
		&a.Notes, &a.EvidenceSummary, &updatedAt,
		&cID, &cCode, &cStmt, &cProcID,
		&pID, &pCode, &pName, &pDomain,
	)
	if err != nil {
		return nil, err
	}

	a.Status = Status(status)
	a.Compliance = Compliance(compliance)
	if score.Valid {
		v := int(score.Int64)
		a.Score = &v
	}
	a.UpdatedAt, _ = db.ParseTime(updatedAt)

	if cID.Valid {
		a.Control = &cobit.Control{
			ID:        cID.String,
			Code:      cCode.String,
			Statement: cStmt.String,
			ProcessID: cProcID.String,
			Process:   cobit.JoinedProcess(pID, pCode, pName, pDomain),
		}
	}
	return &a, nil
}
