package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/storage"
)

// streamInterval is how often the websocket stream re-reads the job.
var streamInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type submitRequest struct {
	Filters     Filters `json:"filters"`
	SubmittedBy string  `json:"submitted_by"`
}

// RegisterRoutes mounts the job endpoints and the stored-report download.
func RegisterRoutes(r chi.Router, queue *Queue, files storage.Storage, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.Post("/api/reports/jobs", handleSubmit(queue))
	r.Get("/api/reports/jobs/{id}", handleGet(queue))
	r.Get("/api/reports/jobs/{id}/ws", handleStream(queue, logger))
	r.Get("/api/reports/files/{name}", handleDownload(files))
}

func handleSubmit(queue *Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, err := queue.Submit(r.Context(), req.Filters, req.SubmittedBy)
		var fe *FilterError
		if errors.As(err, &fe) {
			writeError(w, http.StatusBadRequest, fe.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"jobId": id})
	}
}

func handleGet(queue *Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := queue.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, j)
	}
}

// handleStream pushes a job snapshot whenever it changes and closes the
// connection once the job reaches a terminal status.
func handleStream(queue *Queue, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := queue.Get(r.Context(), id); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		// Drain client frames so close messages are noticed.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(streamInterval)
		defer ticker.Stop()

		var last time.Time
		for {
			j, err := queue.Get(r.Context(), id)
			if err != nil {
				logger.Warn("reading job for stream", zap.String("job_id", id), zap.Error(err))
				return
			}
			if !j.UpdatedAt.Equal(last) {
				last = j.UpdatedAt
				if err := conn.WriteJSON(j); err != nil {
					return
				}
			}
			if j.Status.Terminal() {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(j.Status)))
				return
			}

			select {
			case <-closed:
				return
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
		}
	}
}

func handleDownload(files storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := storage.ValidateKey(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rc, err := files.Get(r.Context(), name)
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", storage.ContentType(name))
		w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
		w.WriteHeader(http.StatusOK)
		io.Copy(w, rc)
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
