package audit

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// RegisterRoutes mounts audit endpoints under /api/audits on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/audits", handleList(store))
	r.Post("/api/audits", handleCreate(store))
	r.Get("/api/audits/{id}", handleGetByID(store))
	r.Patch("/api/audits/{id}/status", handleUpdateStatus(store))
	r.Delete("/api/audits/{id}", handleDelete(store))
}

type createRequest struct {
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Status         Status        `json:"status"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	ScopeProcesses []string      `json:"scope_processes"`
	ScoringConfig  ScoringConfig `json:"scoring_config"`
	CreatedBy      string        `json:"created_by"`
}

// ParseFilter builds a ListFilter from status, created_by, from and to
// values. Dates use the YYYY-MM-DD layout.
func ParseFilter(status, createdBy, from, to string) (ListFilter, error) {
	f := ListFilter{Status: status, CreatedBy: createdBy}
	var err error
	if f.StartFrom, err = parseDate(from); err != nil {
		return f, err
	}
	if f.StartTo, err = parseDate(to); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(db.DateFormat, v)
	if err != nil {
		return nil, errors.New("dates must use the YYYY-MM-DD format")
	}
	return &t, nil
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter, err := ParseFilter(q.Get("status"), q.Get("created_by"), q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		audits, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if audits == nil {
			audits = []Audit{}
		}
		writeJSON(w, http.StatusOK, audits)
	}
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Status != "" && !req.Status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}

		start, err := parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := store.Create(r.Context(), Audit{
			Name:           req.Name,
			Description:    req.Description,
			Status:         req.Status,
			StartDate:      start,
			EndDate:        end,
			ScopeProcesses: req.ScopeProcesses,
			ScoringConfig:  req.ScoringConfig,
			CreatedBy:      req.CreatedBy,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleUpdateStatus(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
			writeError(w, http.StatusBadRequest, "a valid status is required")
			return
		}

		id := chi.URLParam(r, "id")
		err := store.UpdateStatus(r.Context(), id, req.Status)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
