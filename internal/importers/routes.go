package importers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxCatalogueSize bounds the accepted request body.
const maxCatalogueSize = 4 << 20

// RegisterRoutes mounts the catalogue import endpoint. The body is a YAML
// catalogue document.
func RegisterRoutes(r chi.Router, im *Importer) {
	r.Post("/api/catalogue/import", handleImport(im))
}

func handleImport(im *Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := Parse(http.MaxBytesReader(w, r.Body, maxCatalogueSize))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sum, err := im.Apply(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sum)
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
