package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions maps raster image extensions accepted by the vision
// providers to their media type.
var supportedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// sidecarExtensions are companion files that live beside page images
// (transcriptions, annotations, upload mappings, reports) and are skipped
// during discovery.
var sidecarExtensions = map[string]struct{}{
	".txt":  {},
	".json": {},
	".yaml": {},
	".yml":  {},
	".md":   {},
}

// ValidationError signals a file that cannot be treated as a page image.
// It is fatal: fix the input directory and rerun.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid page image %s: %s", e.Path, e.Reason)
}

// Status is the completion state of a page image, derived from the presence
// of its transcription file.
type Status int

const (
	StatusPending Status = iota
	StatusDone
)

func (s Status) String() string {
	if s == StatusDone {
		return "done"
	}
	return "pending"
}

// PageImage identifies one scanned page image on durable storage. It holds
// only the canonical path; transcription and annotation paths are derived on
// demand and never cached.
type PageImage struct {
	path string
}

// NewPageImage constructs a PageImage, failing if the file extension does not
// denote a supported raster image format.
func NewPageImage(path string) (PageImage, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return PageImage{}, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported image extension %q", ext),
		}
	}
	return PageImage{path: path}, nil
}

// Path returns the canonical image path.
func (p PageImage) Path() string {
	return p.path
}

// Name returns the image file name.
func (p PageImage) Name() string {
	return filepath.Base(p.path)
}

// MediaType returns the image's media type, e.g. "image/jpeg".
func (p PageImage) MediaType() string {
	return supportedExtensions[strings.ToLower(filepath.Ext(p.path))]
}

func (p PageImage) basePath() string {
	return strings.TrimSuffix(p.path, filepath.Ext(p.path))
}

// TranscriptionPath returns the sibling path holding the image's
// transcription text.
func (p PageImage) TranscriptionPath() string {
	return p.basePath() + ".txt"
}

// AnnotationPath returns the sibling path holding the image's optional human
// annotation (ground-truth hint) text.
func (p PageImage) AnnotationPath() string {
	return p.basePath() + "_annotation.txt"
}

// Status re-derives the completion state from the transcription file's
// presence on disk. File presence is the only completion signal; there is no
// separate checkpoint.
func (p PageImage) Status() Status {
	if fileExists(p.TranscriptionPath()) {
		return StatusDone
	}
	return StatusPending
}

// HasAnnotation reports whether a human annotation file exists for the image.
func (p PageImage) HasAnnotation() bool {
	return fileExists(p.AnnotationPath())
}

// Transcription reads the image's transcription text.
func (p PageImage) Transcription() (string, error) {
	data, err := os.ReadFile(p.TranscriptionPath())
	if err != nil {
		return "", fmt.Errorf("failed to read transcription: %w", err)
	}
	return string(data), nil
}

// Annotation reads the image's human annotation text.
func (p PageImage) Annotation() (string, error) {
	data, err := os.ReadFile(p.AnnotationPath())
	if err != nil {
		return "", fmt.Errorf("failed to read annotation: %w", err)
	}
	return string(data), nil
}

// ReadImage reads the raw image bytes.
func (p PageImage) ReadImage() ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// SaveTranscription writes text to the derived transcription path, replacing
// any existing content. This is the sole state mutation in the pipeline and
// the signal future runs use to treat the image as done.
func (p PageImage) SaveTranscription(text string) error {
	if err := os.WriteFile(p.TranscriptionPath(), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write transcription: %w", err)
	}
	return nil
}

// Scan lists dir in lexicographic filename order and returns a PageImage per
// supported image file. Filenames are the page-ordering mechanism, so they
// must encode page order with zero-padded numbers (page_002 before page_010).
//
// Known sidecar files (.txt, .json, ...), dotfiles, and subdirectories are
// skipped; any other extension is a hard ValidationError.
func Scan(dir string) ([]PageImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var images []PageImage
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := sidecarExtensions[strings.ToLower(filepath.Ext(name))]; ok {
			continue
		}
		img, err := NewPageImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
