package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewPageImage(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "jpeg", path: "scans/page_001_img_001.jpeg"},
		{name: "jpg", path: "scans/page_001_img_001.jpg"},
		{name: "png", path: "scans/page_001_img_001.png"},
		{name: "webp", path: "scans/page_001_img_001.webp"},
		{name: "uppercase extension", path: "scans/page_001.JPG"},
		{name: "tiff rejected", path: "scans/page_001.tiff", wantErr: true},
		{name: "pdf rejected", path: "scans/doc.pdf", wantErr: true},
		{name: "no extension rejected", path: "scans/page_001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPageImage(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %s, got nil", tt.path)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected ValidationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %s: %v", tt.path, err)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	img, err := NewPageImage("/data/archives/acp/page_003_img_001.jpeg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got, want := img.TranscriptionPath(), "/data/archives/acp/page_003_img_001.txt"; got != want {
		t.Errorf("TranscriptionPath = %s, want %s", got, want)
	}
	if got, want := img.AnnotationPath(), "/data/archives/acp/page_003_img_001_annotation.txt"; got != want {
		t.Errorf("AnnotationPath = %s, want %s", got, want)
	}
	if got, want := img.MediaType(), "image/jpeg"; got != want {
		t.Errorf("MediaType = %s, want %s", got, want)
	}
}

func TestStatusAndSaveTranscription(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page_001_img_001.jpg")
	writeFile(t, path, "fake image bytes")

	img, err := NewPageImage(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if img.Status() != StatusPending {
		t.Errorf("Expected pending before transcription, got %v", img.Status())
	}

	if err := img.SaveTranscription("Texto A"); err != nil {
		t.Fatalf("SaveTranscription failed: %v", err)
	}
	if img.Status() != StatusDone {
		t.Errorf("Expected done after transcription, got %v", img.Status())
	}

	text, err := img.Transcription()
	if err != nil {
		t.Fatalf("Transcription failed: %v", err)
	}
	if text != "Texto A" {
		t.Errorf("Transcription = %q, want %q", text, "Texto A")
	}

	// Overwrite semantics: a second save replaces the first.
	if err := img.SaveTranscription("Texto B"); err != nil {
		t.Fatalf("SaveTranscription failed: %v", err)
	}
	text, _ = img.Transcription()
	if text != "Texto B" {
		t.Errorf("Transcription after overwrite = %q, want %q", text, "Texto B")
	}
}

func TestScanOrdering(t *testing.T) {
	dir := t.TempDir()
	// Created out of order on purpose; discovery must sort lexicographically.
	for _, name := range []string{"page_010_img_001.jpg", "page_001_img_001.jpg", "page_002_img_001.jpg"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	images, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{"page_001_img_001.jpg", "page_002_img_001.jpg", "page_010_img_001.jpg"}
	if len(images) != len(want) {
		t.Fatalf("Scan returned %d images, want %d", len(images), len(want))
	}
	for i, img := range images {
		if img.Name() != want[i] {
			t.Errorf("images[%d] = %s, want %s", i, img.Name(), want[i])
		}
	}
}

func TestScanOrderingRequiresZeroPadding(t *testing.T) {
	// Unpadded page numbers sort incorrectly: page_10 lands between page_1
	// and page_2. This documents why extract zero-pads filenames.
	dir := t.TempDir()
	for _, name := range []string{"page_1.jpg", "page_2.jpg", "page_10.jpg"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	images, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := []string{"page_1.jpg", "page_10.jpg", "page_2.jpg"}
	for i, img := range images {
		if img.Name() != want[i] {
			t.Errorf("images[%d] = %s, want %s (lexicographic, not numeric)", i, img.Name(), want[i])
		}
	}
}

func TestScanSkipsSidecarsAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page_001.jpg"), "x")
	writeFile(t, filepath.Join(dir, "page_001.txt"), "transcription")
	writeFile(t, filepath.Join(dir, "page_001_annotation.txt"), "annotation")
	writeFile(t, filepath.Join(dir, "drive_map.json"), "{}")
	writeFile(t, filepath.Join(dir, "notes.md"), "notes")
	writeFile(t, filepath.Join(dir, ".hidden.jpg"), "x")
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}

	images, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(images) != 1 || images[0].Name() != "page_001.jpg" {
		t.Errorf("Scan = %v, want only page_001.jpg", names(images))
	}
}

func TestScanRejectsUnknownExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page_001.jpg"), "x")
	writeFile(t, filepath.Join(dir, "page_002.tiff"), "x")

	_, err := Scan(dir)
	if err == nil {
		t.Fatal("Expected error for unsupported extension, got nil")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func names(images []PageImage) []string {
	var out []string
	for _, img := range images {
		out = append(out, img.Name())
	}
	return out
}
