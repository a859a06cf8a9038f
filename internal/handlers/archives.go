package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/artalog/escribano/internal/archive"
)

// ArchiveSummary is one scanned archive (a subdirectory of the archives root).
type ArchiveSummary struct {
	Name        string `json:"name"`
	Pages       int    `json:"pages"`
	Transcribed int    `json:"transcribed"`
}

// PageEntry is one page image within an archive.
type PageEntry struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
}

// PageDetail pairs a page image with its transcription text.
type PageDetail struct {
	Name          string `json:"name"`
	ImageURL      string `json:"image_url"`
	Status        string `json:"status"`
	Transcription string `json:"transcription,omitempty"`
	Source        string `json:"source,omitempty"`
}

// HandleArchives lists the archives under the root directory.
func (h *Handler) HandleArchives(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := os.ReadDir(h.root)
	if err != nil {
		h.writeError(w, "Unable to list archives", http.StatusInternalServerError)
		return
	}

	summaries := make([]ArchiveSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		images, err := archive.Scan(filepath.Join(h.root, entry.Name()))
		if err != nil {
			h.writeError(w, "Unable to scan archive "+entry.Name(), http.StatusInternalServerError)
			return
		}
		summary := ArchiveSummary{Name: entry.Name(), Pages: len(images)}
		for _, img := range images {
			if img.Status() == archive.StatusDone {
				summary.Transcribed++
			}
		}
		summaries = append(summaries, summary)
	}

	h.writeJSON(w, summaries)
}

// HandleArchiveDetail serves page listings and per-page detail:
//
//	GET /api/archives/{name}              -> ordered page entries
//	GET /api/archives/{name}/pages        -> same page entries
//	GET /api/archives/{name}/pages/{file} -> page image + transcription
func (h *Handler) HandleArchiveDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/archives/")
	if rest == "" || strings.Contains(rest, "..") {
		h.writeError(w, "Invalid archive path", http.StatusBadRequest)
		return
	}

	name, sub, _ := strings.Cut(rest, "/")
	if sub == "" || sub == "pages" {
		h.listPages(w, name)
		return
	}

	file := strings.TrimPrefix(sub, "pages/")
	if file == sub || file == "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}
	h.pageDetail(w, r, name, file)
}

func (h *Handler) listPages(w http.ResponseWriter, name string) {
	images, err := archive.Scan(filepath.Join(h.root, name))
	if err != nil {
		h.writeError(w, "Unable to scan archive "+name, http.StatusNotFound)
		return
	}

	pages := make([]PageEntry, 0, len(images))
	for _, img := range images {
		pages = append(pages, PageEntry{
			Name:     img.Name(),
			ImageURL: path.Join("/files", name, img.Name()),
			Status:   img.Status().String(),
		})
	}
	h.writeJSON(w, pages)
}

func (h *Handler) pageDetail(w http.ResponseWriter, r *http.Request, name, file string) {
	img, err := archive.NewPageImage(filepath.Join(h.root, name, file))
	if err != nil {
		h.writeError(w, "Invalid page image", http.StatusBadRequest)
		return
	}

	detail := PageDetail{
		Name:     img.Name(),
		ImageURL: path.Join("/files", name, img.Name()),
		Status:   img.Status().String(),
	}

	refresh := r.URL.Query().Get("refresh") != ""
	text, source := h.transcriptionFor(r, name, img, refresh)
	detail.Transcription = text
	detail.Source = source

	h.writeJSON(w, detail)
}

// transcriptionFor prefers the uploaded Google Doc when one is mapped and a
// Drive reader is configured, falling back to the local .txt sidecar.
func (h *Handler) transcriptionFor(r *http.Request, archiveName string, img archive.PageImage, refresh bool) (string, string) {
	if h.drive != nil {
		relTxt := path.Join(archiveName, strings.TrimSuffix(img.Name(), path.Ext(img.Name()))+".txt")
		if docID, ok := h.drive.DocID(relTxt); ok {
			if refresh {
				h.docCache.Delete(docID)
			}
			if text, ok := h.docCache.Get(docID); ok {
				return text, "drive"
			}
			text, err := h.drive.ExportText(r.Context(), docID)
			if err == nil {
				h.docCache.Set(docID, text)
				return text, "drive"
			}
			// fall through to the local copy
		}
	}

	if img.Status() == archive.StatusDone {
		if text, err := img.Transcription(); err == nil {
			return text, "local"
		}
	}
	return "", ""
}
