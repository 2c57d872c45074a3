package audit

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

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func date(s string) *time.Time {
	t, err := time.Parse(db.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func seedAudits(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	for _, a := range []Audit{
		{Name: "Q1 security", Status: StatusCompleted, StartDate: date("2026-01-10"), CreatedBy: "alice"},
		{Name: "Q2 governance", Status: StatusInProgress, StartDate: date("2026-04-02"), CreatedBy: "bob"},
		{Name: "Q3 continuity", Status: StatusCompleted, StartDate: date("2026-07-15"), CreatedBy: "alice"},
		{Name: "Backlog", Status: StatusPlanned, CreatedBy: "alice"},
	} {
		if _, err := store.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
}

func TestCreateAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Audit{
		Name:           "ERP audit",
		Description:    "Annual review",
		StartDate:      date("2026-02-01"),
		EndDate:        date("2026-03-01"),
		ScopeProcesses: []string{"APO12", "DSS05"},
		CreatedBy:      "alice",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusPlanned {
		t.Errorf("Status = %q, want %q", created.Status, StatusPlanned)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "ERP audit" {
		t.Errorf("Name = %q, want %q", got.Name, "ERP audit")
	}
	if len(got.ScopeProcesses) != 2 || got.ScopeProcesses[1] != "DSS05" {
		t.Errorf("ScopeProcesses = %v, want [APO12 DSS05]", got.ScopeProcesses)
	}
	if got.StartDate == nil || got.StartDate.Format(db.DateFormat) != "2026-02-01" {
		t.Errorf("StartDate = %v, want 2026-02-01", got.StartDate)
	}
	if score, ok := got.ScoringConfig.ScoreFor("compliant"); !ok || score != 5 {
		t.Errorf("ScoreFor(compliant) = %d, %v; want 5, true", score, ok)
	}
	if _, ok := got.ScoringConfig.ScoreFor("not_applicable"); ok {
		t.Error("not_applicable should carry no score")
	}
}

func TestCreateRequiresName(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Create(context.Background(), Audit{}); err == nil {
		t.Error("expected error for audit without a name")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	store := setupStore(t)
	seedAudits(t, store)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"empty", ListFilter{}, 4},
		{"all status", ListFilter{Status: StatusAll}, 4},
		{"completed", ListFilter{Status: string(StatusCompleted)}, 2},
		{"creator", ListFilter{CreatedBy: "alice"}, 3},
		{"range", ListFilter{StartFrom: date("2026-01-01"), StartTo: date("2026-04-30")}, 2},
		{"from only", ListFilter{StartFrom: date("2026-04-02")}, 2},
		{"to only", ListFilter{StartTo: date("2026-01-10")}, 1},
		{"combined", ListFilter{Status: string(StatusCompleted), CreatedBy: "alice", StartFrom: date("2026-06-01")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audits, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(audits) != tt.want {
				t.Errorf("got %d audits, want %d", len(audits), tt.want)
			}
		})
	}
}

func TestListCreationOrder(t *testing.T) {
	store := setupStore(t)
	seedAudits(t, store)

	audits, err := store.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if audits[0].Name != "Q1 security" || audits[3].Name != "Backlog" {
		t.Errorf("unexpected order: %q ... %q", audits[0].Name, audits[3].Name)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a, err := store.Create(ctx, Audit{Name: "Lifecycle"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.UpdateStatus(ctx, a.ID, StatusReview); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := store.GetByID(ctx, a.ID)
	if got.Status != StatusReview {
		t.Errorf("Status = %q, want %q", got.Status, StatusReview)
	}

	if err := store.UpdateStatus(ctx, a.ID, "bogus"); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := store.UpdateStatus(ctx, "missing", StatusReview); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(missing) err = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPCreateAndGet(t *testing.T) {
	r, _ := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"name":            "HTTP audit",
		"start_date":      "2026-05-01",
		"scope_processes": []string{"APO01"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/audits", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created Audit
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/audits/"+created.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHTTPCreateBadDate(t *testing.T) {
	r, _ := setupRouter(t)

	body := []byte(`{"name":"x","start_date":"01/05/2026"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/audits", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHTTPListWithFilter(t *testing.T) {
	r, store := setupRouter(t)
	seedAudits(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/audits?status=completed&created_by=alice", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var audits []Audit
	if err := json.NewDecoder(rec.Body).Decode(&audits); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(audits) != 2 {
		t.Errorf("expected 2 audits, got %d", len(audits))
	}
}

func TestHTTPGetNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audits/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPUpdateStatus(t *testing.T) {
	r, store := setupRouter(t)
	a, err := store.Create(context.Background(), Audit{Name: "Patch me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/audits/"+a.ID+"/status", bytes.NewReader([]byte(`{"status":"review"}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/audits/"+a.ID+"/status", bytes.NewReader([]byte(`{"status":"done"}`)))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
