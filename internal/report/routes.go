package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/audit"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterRoutes mounts the single-report download endpoints.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/reports/variants", handleVariants())
	r.Get("/api/audits/{id}/reports/{variant}", handleReport(svc))
	r.Get("/api/audits/{id}/exports/findings.xlsx", handleFindingsXLSX(svc))
}

func handleVariants() http.HandlerFunc {
	type entry struct {
		ID    Variant `json:"id"`
		Title string  `json:"title"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var out []entry
		for _, v := range Variants() {
			out = append(out, entry{ID: v, Title: v.Title()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleReport(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := ParseVariant(chi.URLParam(r, "variant"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		id := chi.URLParam(r, "id")
		out, err := svc.GenerateSingle(r.Context(), v, id)
		if errors.Is(err, audit.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("audit-%s-%s.pdf", id, v)))
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}

func handleFindingsXLSX(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		out, err := svc.ExportFindings(r.Context(), id)
		if errors.Is(err, audit.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("audit-%s-findings.xlsx", id)))
		w.WriteHeader(http.StatusOK)
		w.Write(out)
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
