package pdfimages

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// FileName returns the output name for the imgNr-th embedded image on page
// pageNr. Page and image numbers are zero-padded so that lexicographic
// filename order equals page order, which is the ordering contract the
// transcription driver relies on.
func FileName(pageNr, imgNr int, fileType string) string {
	return fmt.Sprintf("page_%03d_img_%03d.%s", pageNr, imgNr, fileType)
}

// DefaultOutputDir derives the extraction directory from the PDF path: the
// same path minus its extension.
func DefaultOutputDir(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath))
}

// Extract writes every embedded image in the PDF at pdfPath into outDir and
// returns the number of images written. outDir is created if missing.
func Extract(pdfPath, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count := 0
	perPage := make(map[int]int)
	digest := func(img model.Image, singleImgPerPage bool, maxPageDigits int) error {
		perPage[img.PageNr]++
		path := filepath.Join(outDir, FileName(img.PageNr, perPage[img.PageNr], img.FileType))

		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer out.Close()

		if _, err := io.Copy(out, img); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.Info("Extracted image", "page", img.PageNr, "path", path)
		count++
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, nil); err != nil {
		return count, fmt.Errorf("failed to extract images from %s: %w", pdfPath, err)
	}
	return count, nil
}
