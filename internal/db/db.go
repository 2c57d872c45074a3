package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TimeFormat is the fixed-width layout used for every timestamp column so
// that lexical order matches chronological order.
const TimeFormat = "2006-01-02 15:04:05.000000"

// DateFormat is the layout of calendar-date columns (audit start/end, due dates).
const DateFormat = "2006-01-02"

// DB wraps a sql.DB with the audit service schema applied.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
// The pool is pinned to one connection; every new connection to ":memory:"
// would otherwise see an empty database.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// FormatTime renders t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a value written by FormatTime. SQLite's datetime('now')
// output is accepted as well.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, s)
}

// NullTime converts an optional timestamp into a nullable column value.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// NullDate converts an optional calendar date into a nullable column value.
func NullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(DateFormat), Valid: true}
}

// ScanTime parses an optional timestamp column. Unparseable values are
// treated as absent.
func ScanTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// ScanDate parses an optional calendar-date column.
func ScanDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(DateFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'auditor' CHECK(role IN ('admin','auditor','viewer')),
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS processes (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    domain TEXT NOT NULL CHECK(domain IN ('EDM','APO','BAI','DSS','MEA'))
);

CREATE TABLE IF NOT EXISTS controls (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    statement TEXT NOT NULL DEFAULT '',
    process_id TEXT REFERENCES processes(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_controls_process ON controls(process_id);

CREATE TABLE IF NOT EXISTS audits (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'planned' CHECK(status IN ('planned','in_progress','review','completed','cancelled')),
    start_date TEXT,
    end_date TEXT,
    scope_processes TEXT NOT NULL DEFAULT '[]',
    scoring_config TEXT NOT NULL DEFAULT '{}',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audits_status ON audits(status);
CREATE INDEX IF NOT EXISTS idx_audits_created_by ON audits(created_by);
CREATE INDEX IF NOT EXISTS idx_audits_start_date ON audits(start_date);

CREATE TABLE IF NOT EXISTS assessments (
    id TEXT PRIMARY KEY,
    audit_id TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
    control_id TEXT NOT NULL REFERENCES controls(id),
    status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','in_progress','completed')),
    compliance TEXT NOT NULL DEFAULT '' CHECK(compliance IN ('','compliant','partially_compliant','non_compliant','not_applicable')),
    score INTEGER CHECK(score IS NULL OR (score >= 0 AND score <= 5)),
    notes TEXT NOT NULL DEFAULT '',
    evidence_summary TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL,
    UNIQUE(audit_id, control_id)
);

CREATE INDEX IF NOT EXISTS idx_assessments_audit ON assessments(audit_id);

CREATE TABLE IF NOT EXISTS findings (
    id TEXT PRIMARY KEY,
    audit_id TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
    control_id TEXT REFERENCES controls(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    severity TEXT NOT NULL DEFAULT 'medium' CHECK(severity IN ('low','medium','high','critical')),
    likelihood INTEGER CHECK(likelihood IS NULL OR (likelihood >= 1 AND likelihood <= 5)),
    impact INTEGER CHECK(impact IS NULL OR (impact >= 1 AND impact <= 5)),
    status TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open','investigating','action_planned','in_remediation','verification','closed')),
    action_plan TEXT NOT NULL DEFAULT '',
    due_date TEXT,
    closed_at TEXT,
    owner_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_findings_audit ON findings(audit_id);

CREATE TABLE IF NOT EXISTS report_jobs (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','processing','completed','failed')),
    filters TEXT NOT NULL DEFAULT '{}',
    progress INTEGER NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
    result_urls TEXT NOT NULL DEFAULT '[]',
    error TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_report_jobs_status ON report_jobs(status, created_at);
`
