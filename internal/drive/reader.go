package drive

import (
	"context"
	"fmt"
	"io"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Reader resolves uploaded transcriptions for the viewer: it looks up Doc IDs
// in the mapping and exports Doc content as plain text.
type Reader struct {
	svc     *gdrive.Service
	mapping *Mapping
}

// NewReader builds a read-only Drive client over the mapping at mappingPath.
func NewReader(ctx context.Context, credentialsFile, mappingPath string) (*Reader, error) {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	mapping, err := LoadMapping(mappingPath)
	if err != nil {
		return nil, err
	}
	return &Reader{svc: svc, mapping: mapping}, nil
}

// DocID returns the mapped Doc ID for a path relative to the upload root.
func (r *Reader) DocID(relPath string) (string, bool) {
	id, ok := r.mapping.Files[relPath]
	return id, ok
}

// ExportText downloads a Doc's content as plain text.
func (r *Reader) ExportText(ctx context.Context, docID string) (string, error) {
	resp, err := r.svc.Files.Export(docID, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to export doc %s: %w", docID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read doc export: %w", err)
	}
	return string(data), nil
}
