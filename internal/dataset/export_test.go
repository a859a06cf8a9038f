package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, dir string, pages map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, transcription := range pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("image"), 0644); err != nil {
			t.Fatal(err)
		}
		if transcription == "" {
			continue
		}
		txt := name[:len(name)-len(filepath.Ext(name))] + ".txt"
		if err := os.WriteFile(filepath.Join(dir, txt), []byte(transcription), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, filepath.Join(root, "legajo_001"), map[string]string{
		"page_001_img_001.jpg": "primer folio",
		"page_002_img_001.jpg": "", // pending, must be skipped
	})
	writeArchive(t, filepath.Join(root, "legajo_002"), map[string]string{
		"page_001_img_001.png": "otro folio",
	})

	records, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Archive != "legajo_001" || records[0].Image != "page_001_img_001.jpg" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[0].Transcription != "primer folio" {
		t.Errorf("Transcription = %q, want %q", records[0].Transcription, "primer folio")
	}
	if records[1].Archive != "legajo_002" {
		t.Errorf("Second record archive = %s, want legajo_002", records[1].Archive)
	}
}

func TestCollectFlatDirectory(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, root, map[string]string{
		"page_001_img_001.jpg": "texto",
	})

	records, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Archive != filepath.Base(root) {
		t.Errorf("Archive = %s, want %s", records[0].Archive, filepath.Base(root))
	}
}

func TestCollectIncludesAnnotation(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "legajo_001")
	writeArchive(t, dir, map[string]string{
		"page_001_img_001.jpg": "texto del modelo",
	})
	annotation := filepath.Join(dir, "page_001_img_001_annotation.txt")
	if err := os.WriteFile(annotation, []byte("texto humano"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Annotation != "texto humano" {
		t.Errorf("Annotation = %q, want %q", records[0].Annotation, "texto humano")
	}
}

func TestWriteJSONL(t *testing.T) {
	records := []Record{
		{Archive: "legajo_001", Image: "page_001_img_001.jpg", Transcription: "uno"},
		{Archive: "legajo_001", Image: "page_002_img_001.jpg", Transcription: "dos", Annotation: "humano"},
	}

	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := Write(records, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var got []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("Invalid JSONL line: %v", err)
		}
		got = append(got, record)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(got))
	}
	if got[1].Annotation != "humano" {
		t.Errorf("Annotation = %q, want %q", got[1].Annotation, "humano")
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	err := Write(nil, path)
	if err == nil {
		t.Fatal("Expected error for unsupported format, got nil")
	}
}
