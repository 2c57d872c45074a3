package finding

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/db"
)

// RegisterRoutes mounts the finding endpoints.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/audits/{id}/findings", handleList(store))
	r.Post("/api/audits/{id}/findings", handleCreate(store))
	r.Get("/api/findings/{id}", handleGetByID(store))
	r.Patch("/api/findings/{id}/status", handleUpdateStatus(store))
	r.Put("/api/findings/{id}/action-plan", handleUpdateActionPlan(store))
}

type createRequest struct {
	ControlID   string   `json:"control_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Likelihood  *int     `json:"likelihood"`
	Impact      *int     `json:"impact"`
	ActionPlan  string   `json:"action_plan"`
	DueDate     string   `json:"due_date"`
	OwnerID     string   `json:"owner_id"`
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListByAudit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]view, 0, len(list))
		for _, f := range list {
			out = append(out, withRisk(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		due, err := parseDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := store.Create(r.Context(), Finding{
			AuditID:     chi.URLParam(r, "id"),
			ControlID:   req.ControlID,
			Title:       req.Title,
			Description: req.Description,
			Severity:    req.Severity,
			Likelihood:  req.Likelihood,
			Impact:      req.Impact,
			ActionPlan:  req.ActionPlan,
			DueDate:     due,
			OwnerID:     req.OwnerID,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, withRisk(*created))
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, withRisk(*f))
	}
}

func handleUpdateStatus(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		f, err := store.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, ErrClosed):
			writeError(w, http.StatusConflict, err.Error())
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeJSON(w, http.StatusOK, withRisk(*f))
		}
	}
}

func handleUpdateActionPlan(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ActionPlan string `json:"action_plan"`
			DueDate    string `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		due, err := parseDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		f, err := store.UpdateActionPlan(r.Context(), chi.URLParam(r, "id"), req.ActionPlan, due)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, withRisk(*f))
	}
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(db.DateFormat, v)
	if err != nil {
		return nil, errors.New("due_date must use the YYYY-MM-DD format")
	}
	return &t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
