package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artalog/escribano/internal/drive"
	"github.com/artalog/escribano/internal/storage"
)

// Handler serves the read-only scan/transcription viewer over an archives
// root directory. The Drive reader is optional; when absent, transcriptions
// come from local .txt files only.
type Handler struct {
	root     string
	docCache *storage.DocCache
	drive    *drive.Reader
}

func New(root string, driveReader *drive.Reader) *Handler {
	return &Handler{
		root:     root,
		docCache: storage.New(),
		drive:    driveReader,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
