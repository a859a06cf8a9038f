package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleFiles serves scan images (and transcription sidecars) from the
// archives root under /files/.
func (h *Handler) HandleFiles(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/files/")

	// Prevent directory traversal attacks
	if rel == "" || strings.Contains(rel, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.root, filepath.FromSlash(rel)))
}

// HandleStatic serves the viewer UI from the static directory.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" {
		rel = "index.html"
	}

	// Prevent directory traversal attacks
	if strings.Contains(rel, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(rel, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(rel, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(rel, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join("static", rel))
}
