package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/artalog/escribano/internal/archive"
)

// Record is one completed transcription: the scanned page, the model or human
// text, and the optional human annotation that guided it. Exported datasets
// feed few-shot pools and model fine-tuning.
type Record struct {
	Archive       string `json:"archive" parquet:"archive"`
	Image         string `json:"image" parquet:"image"`
	Transcription string `json:"transcription" parquet:"transcription"`
	Annotation    string `json:"annotation,omitempty" parquet:"annotation,optional"`
}

// Collect walks root and returns a record per completed page image. Root may
// be a single archive directory of images or a parent directory of archive
// subdirectories; pending images are skipped.
func Collect(root string) ([]Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var records []Record

	// Images directly under root form a single archive named after it.
	rootRecords, err := collectArchive(root, filepath.Base(root))
	if err != nil {
		return nil, err
	}
	records = append(records, rootRecords...)

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		sub, err := collectArchive(filepath.Join(root, entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		records = append(records, sub...)
	}

	return records, nil
}

func collectArchive(dir, name string) ([]Record, error) {
	images, err := archive.Scan(dir)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, img := range images {
		if img.Status() != archive.StatusDone {
			continue
		}
		text, err := img.Transcription()
		if err != nil {
			return nil, err
		}
		record := Record{
			Archive:       name,
			Image:         img.Name(),
			Transcription: text,
		}
		if img.HasAnnotation() {
			annotation, err := img.Annotation()
			if err != nil {
				return nil, err
			}
			record.Annotation = annotation
		}
		records = append(records, record)
	}
	return records, nil
}

// Write saves records to path, choosing the format from the file extension
// (.jsonl or .parquet).
func Write(records []Record, path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".jsonl", ".json":
		return writeJSONL(records, path)
	case ".parquet":
		return writeParquet(records, path)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .jsonl, .parquet)", ext)
	}
}

func writeJSONL(records []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}

	slog.Info("Wrote dataset", "path", path, "records", len(records), "format", "jsonl")
	return nil
}

func writeParquet(records []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	w := parquet.NewGenericWriter[Record](file)
	if _, err := w.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Info("Wrote dataset", "path", path, "records", len(records), "format", "parquet")
	return nil
}
