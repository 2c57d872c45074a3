package cobit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// ErrNotFound is returned when a process or control code does not exist.
var ErrNotFound = errors.New("not found in catalogue")

// Store manages the process and control catalogue.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateProcess inserts a process. The domain is derived from the code when unset.
func (s *Store) CreateProcess(ctx context.Context, p Process) (*Process, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Domain == "" {
		p.Domain = DomainFromCode(p.Code)
	}
	if !p.Domain.Valid() {
		return nil, fmt.Errorf("process %q: invalid domain %q", p.Code, p.Domain)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processes (id, code, name, domain) VALUES (?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, string(p.Domain),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting process: %w", err)
	}
	return &p, nil
}

// CreateControl inserts a control. ProcessID may be empty for controls that
// have not been mapped to a process yet.
func (s *Store) CreateControl(ctx context.Context, c Control) (*Control, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	var processID sql.NullString
	if c.ProcessID != "" {
		processID = sql.NullString{String: c.ProcessID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO controls (id, code, statement, process_id) VALUES (?, ?, ?, ?)`,
		c.ID, c.Code, c.Statement, processID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting control: %w", err)
	}
	return &c, nil
}

// ProcessByCode looks up a process by its code.
func (s *Store) ProcessByCode(ctx context.Context, code string) (*Process, error) {
	var (
		p      Process
		domain string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, domain FROM processes WHERE code = ?`, code,
	).Scan(&p.ID, &p.Code, &p.Name, &domain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: process %s", ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("getting process: %w", err)
	}
	p.Domain = Domain(domain)
	return &p, nil
}

// ControlExists reports whether a control with the given code is catalogued.
func (s *Store) ControlExists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM controls WHERE code = ?`, code).Scan(&n); err != nil {
		return false, fmt.Errorf("checking control: %w", err)
	}
	return n > 0, nil
}

// ListControls returns the controls whose process code is in scope, ordered
// by control code. An empty scope returns the whole catalogue.
func (s *Store) ListControls(ctx context.Context, scope []string) ([]Control, error) {
	query := `
		SELECT c.id, c.code, c.statement, c.process_id, p.id, p.code, p.name, p.domain
		FROM controls c
		LEFT JOIN processes p ON p.id = c.process_id`
	var args []any
	if len(scope) > 0 {
		placeholders := make([]string, len(scope))
		for i, code := range scope {
			placeholders[i] = "?"
			args = append(args, code)
		}
		query += " WHERE p.code IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY c.code"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing controls: %w", err)
	}
	defer rows.Close()

	var controls []Control
	for rows.Next() {
		var (
			c                          Control
			processID                  sql.NullString
			pID, pCode, pName, pDomain sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Code, &c.Statement, &processID, &pID, &pCode, &pName, &pDomain); err != nil {
			return nil, fmt.Errorf("scanning control: %w", err)
		}
		c.ProcessID = processID.String
		c.Process = JoinedProcess(pID, pCode, pName, pDomain)
		controls = append(controls, c)
	}
	return controls, rows.Err()
}

// JoinedProcess builds a Process from LEFT JOIN columns, returning nil when
// the control has no resolvable process.
func JoinedProcess(id, code, name, domain sql.NullString) *Process {
	if !id.Valid {
		return nil
	}
	return &Process{
		ID:     id.String,
		Code:   code.String,
		Name:   name.String,
		Domain: Domain(domain.String),
	}
}
