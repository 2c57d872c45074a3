package finding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

func intp(v int) *int { return &v }

func setup(t *testing.T) (*Store, string, *users.User) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	a, err := audit.NewStore(database).Create(ctx, audit.Audit{Name: "Findings audit"})
	if err != nil {
		t.Fatalf("Create audit: %v", err)
	}
	owner, err := users.NewStore(database).Create(ctx, users.User{Name: "Luis Perez"})
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return NewStore(database), a.ID, owner
}

func TestRiskScoreAndLevel(t *testing.T) {
	tests := []struct {
		likelihood, impact *int
		score              int
		level              RiskLevel
	}{
		{intp(5), intp(4), 20, RiskCritical},
		{intp(4), intp(4), 16, RiskHigh},
		{intp(3), intp(4), 12, RiskHigh},
		{intp(3), intp(3), 9, RiskMedium},
		{intp(2), intp(3), 6, RiskMedium},
		{intp(1), intp(5), 5, RiskLow},
		{nil, intp(4), 0, RiskLow},
	}
	for _, tt := range tests {
		f := Finding{Likelihood: tt.likelihood, Impact: tt.impact}
		if got := f.RiskScore(); got != tt.score {
			t.Errorf("RiskScore() = %d, want %d", got, tt.score)
		}
		if got := f.RiskLevel(); got != tt.level {
			t.Errorf("RiskLevel() for score %d = %q, want %q", tt.score, got, tt.level)
		}
	}
}

func TestCreateAndListWithOwner(t *testing.T) {
	store, auditID, owner := setup(t)
	ctx := context.Background()

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, Finding{
		AuditID:    auditID,
		Title:      "Shared admin accounts",
		Severity:   SeverityHigh,
		Likelihood: intp(4),
		Impact:     intp(5),
		DueDate:    &due,
		OwnerID:    owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusOpen || created.ClosedAt != nil {
		t.Errorf("new finding = %q closed_at=%v, want open/nil", created.Status, created.ClosedAt)
	}
	if _, err := store.Create(ctx, Finding{AuditID: auditID, Title: "No owner"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := store.ListByAudit(ctx, auditID)
	if err != nil {
		t.Fatalf("ListByAudit: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(list))
	}
	if list[0].OwnerName() != "Luis Perez" {
		t.Errorf("OwnerName() = %q, want %q", list[0].OwnerName(), "Luis Perez")
	}
	if list[0].DueDate == nil || !list[0].DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", list[0].DueDate, due)
	}
	if list[1].Owner != nil || list[1].Severity != SeverityMedium {
		t.Errorf("second finding owner=%v severity=%q, want nil/medium", list[1].Owner, list[1].Severity)
	}
}

func TestCreateValidation(t *testing.T) {
	store, auditID, _ := setup(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, Finding{AuditID: auditID}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := store.Create(ctx, Finding{AuditID: auditID, Title: "x", Severity: "urgent"}); err == nil {
		t.Error("expected error for unknown severity")
	}
	if _, err := store.Create(ctx, Finding{AuditID: auditID, Title: "x", Likelihood: intp(6)}); err == nil {
		t.Error("expected error for likelihood out of range")
	}
}

func TestClosedAtSetOnceOnClose(t *testing.T) {
	store, auditID, _ := setup(t)
	ctx := context.Background()

	first := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return first }

	f, err := store.Create(ctx, Finding{AuditID: auditID, Title: "Weak backups"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f, err = store.UpdateStatus(ctx, f.ID, StatusInRemediation)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if f.ClosedAt != nil {
		t.Errorf("closed_at = %v before closing, want nil", f.ClosedAt)
	}

	f, err = store.UpdateStatus(ctx, f.ID, StatusClosed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if f.ClosedAt == nil || !f.ClosedAt.Equal(first) {
		t.Fatalf("closed_at = %v, want %v", f.ClosedAt, first)
	}

	store.now = func() time.Time { return first.Add(48 * time.Hour) }
	f, err = store.UpdateStatus(ctx, f.ID, StatusClosed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !f.ClosedAt.Equal(first) {
		t.Errorf("closed_at moved to %v, want it fixed at %v", f.ClosedAt, first)
	}

	if _, err := store.UpdateStatus(ctx, f.ID, StatusOpen); !errors.Is(err, ErrClosed) {
		t.Errorf("reopen err = %v, want ErrClosed", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	store, _, _ := setup(t)
	if _, err := store.UpdateStatus(context.Background(), "missing", StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- HTTP handler tests ---

func TestHTTPCreateIncludesRisk(t *testing.T) {
	store, auditID, _ := setup(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	body, _ := json.Marshal(map[string]any{
		"title":      "Unpatched servers",
		"severity":   "critical",
		"likelihood": 5,
		"impact":     4,
		"due_date":   "2026-11-30",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/audits/"+auditID+"/findings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var got struct {
		RiskScore int    `json:"risk_score"`
		RiskLevel string `json:"risk_level"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RiskScore != 20 || got.RiskLevel != "critical" {
		t.Errorf("risk = %d/%q, want 20/critical", got.RiskScore, got.RiskLevel)
	}
}

func TestHTTPReopenClosedConflict(t *testing.T) {
	store, auditID, _ := setup(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	f, err := store.Create(context.Background(), Finding{AuditID: auditID, Title: "Closed"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.UpdateStatus(context.Background(), f.ID, StatusClosed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/findings/"+f.ID+"/status", bytes.NewReader([]byte(`{"status":"open"}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}
