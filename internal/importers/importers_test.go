package importers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/users"
)

func setup(t *testing.T) (*Importer, *cobit.Store, *users.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	catalogue := cobit.NewStore(database)
	userStore := users.NewStore(database)
	return New(userStore, catalogue), catalogue, userStore
}

func openFixture(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open("testdata/catalogue.yml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestImportCatalogue(t *testing.T) {
	im, catalogue, userStore := setup(t)
	ctx := context.Background()

	sum, err := im.Import(ctx, openFixture(t))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := Summary{Users: 2, Processes: 2, Controls: 3}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}

	controls, err := catalogue.ListControls(ctx, []string{"APO12"})
	if err != nil {
		t.Fatalf("ListControls: %v", err)
	}
	if len(controls) != 2 || controls[0].Process == nil || controls[0].Process.Domain != cobit.DomainAPO {
		t.Errorf("APO12 controls = %+v", controls)
	}

	u, err := userStore.GetByID(ctx, "u-owner")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Name != "Luis Pérez" || u.Role != users.RoleViewer {
		t.Errorf("user = %+v", u)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	im, _, _ := setup(t)
	ctx := context.Background()

	if _, err := im.Import(ctx, openFixture(t)); err != nil {
		t.Fatalf("first Import: %v", err)
	}
	sum, err := im.Import(ctx, openFixture(t))
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if sum.Users != 0 || sum.Processes != 0 || sum.Controls != 0 || sum.Skipped != 7 {
		t.Errorf("second summary = %+v, want everything skipped", sum)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "process:\n  - code: APO01\n",
		"bad domain":    "processes:\n  - code: XYZ01\n",
		"missing code":  "processes:\n  - name: Nameless\n",
		"user no name":  "users:\n  - id: u1\n",
		"control no id": "processes:\n  - code: APO01\n    controls:\n      - statement: x\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(doc)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Processes) != 0 || len(c.Users) != 0 {
		t.Errorf("empty document = %+v", c)
	}
}

// --- HTTP handler tests ---

func TestHTTPImport(t *testing.T) {
	im, _, _ := setup(t)
	r := chi.NewRouter()
	RegisterRoutes(r, im)

	req := httptest.NewRequest(http.MethodPost, "/api/catalogue/import", openFixture(t))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"controls":3`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/catalogue/import", strings.NewReader("processes: [\n"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
