package assessment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/cobit"
)

// RegisterRoutes mounts the assessment endpoints.
func RegisterRoutes(r chi.Router, store *Store, audits *audit.Store, catalogue *cobit.Store) {
	r.Get("/api/audits/{id}/assessments", handleList(store))
	r.Post("/api/audits/{id}/assessments/initialize", handleInitialize(store, audits, catalogue))
	r.Put("/api/assessments/{id}", handleEvaluate(store))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListByAudit(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []Assessment{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// handleInitialize fixes the audit scope: one assessment per in-scope control.
func handleInitialize(store *Store, audits *audit.Store, catalogue *cobit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := audits.GetByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, audit.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		controls, err := catalogue.ListControls(r.Context(), a.ScopeProcesses)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		created, err := store.CreateForScope(r.Context(), a.ID, controls)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int{"created": created, "in_scope": len(controls)})
	}
}

func handleEvaluate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev Evaluation
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := store.Evaluate(r.Context(), chi.URLParam(r, "id"), ev)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
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
