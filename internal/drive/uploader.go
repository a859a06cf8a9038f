package drive

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	docMimeType    = "application/vnd.google-apps.document"
)

// Uploader mirrors a local directory of transcription .txt files into Google
// Drive, creating one Google Doc per file. Already-mapped paths are skipped,
// so re-running after interruption only uploads what is missing.
type Uploader struct {
	svc      *gdrive.Service
	mapping  *Mapping
	root     string
	parentID string
}

// NewUploader builds an uploader rooted at root, creating new remote entries
// under the Drive folder parentID. Credentials come from a service account
// JSON file.
func NewUploader(ctx context.Context, credentialsFile, root, parentID string) (*Uploader, error) {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	mapping, err := LoadMapping(filepath.Join(root, MappingFileName))
	if err != nil {
		return nil, err
	}

	return &Uploader{
		svc:      svc,
		mapping:  mapping,
		root:     root,
		parentID: parentID,
	}, nil
}

// Run walks the upload root and creates a Google Doc for every .txt file not
// yet present in the mapping.
func (u *Uploader) Run(ctx context.Context) error {
	uploaded := 0
	err := filepath.WalkDir(u.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		rel, err := filepath.Rel(u.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		docID, created, err := u.ensureDoc(ctx, rel, path)
		if err != nil {
			return err
		}
		if created {
			uploaded++
			slog.Info("Uploaded document", "file", rel, "doc_id", docID)
		} else {
			slog.Debug("Already uploaded", "file", rel, "doc_id", docID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upload walk failed: %w", err)
	}

	slog.Info("Upload complete", "new_documents", uploaded, "total_mapped", len(u.mapping.Files))
	return nil
}

// ensureDoc returns the Doc ID for the file at relPath, creating the Doc (and
// any missing parent folders) when it is not in the mapping yet.
func (u *Uploader) ensureDoc(ctx context.Context, relPath, absPath string) (string, bool, error) {
	if id, ok := u.mapping.Files[relPath]; ok {
		return id, false, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	parentID, err := u.ensureFolder(ctx, dirOf(relPath))
	if err != nil {
		return "", false, err
	}

	name := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	file := &gdrive.File{
		Name:     name,
		MimeType: docMimeType,
		Parents:  []string{parentID},
	}
	created, err := u.svc.Files.Create(file).
		Media(strings.NewReader(string(content)), googleapi.ContentType("text/plain")).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", false, fmt.Errorf("failed to create doc for %s: %w", relPath, err)
	}

	u.mapping.Files[relPath] = created.Id
	if err := u.mapping.Save(); err != nil {
		return "", false, err
	}
	return created.Id, true, nil
}

// ensureFolder returns the Drive folder ID mirroring relDir, creating the
// folder chain as needed. The empty path maps to the configured parent.
func (u *Uploader) ensureFolder(ctx context.Context, relDir string) (string, error) {
	if relDir == "" {
		return u.parentID, nil
	}
	if id, ok := u.mapping.Folders[relDir]; ok {
		return id, nil
	}

	parentID, err := u.ensureFolder(ctx, dirOf(relDir))
	if err != nil {
		return "", err
	}

	folder := &gdrive.File{
		Name:     filepath.Base(relDir),
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}
	created, err := u.svc.Files.Create(folder).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", relDir, err)
	}
	slog.Info("Created folder", "path", relDir, "folder_id", created.Id)

	u.mapping.Folders[relDir] = created.Id
	if err := u.mapping.Save(); err != nil {
		return "", err
	}
	return created.Id, nil
}

// dirOf is filepath.Dir over slash paths with "" for the root instead of ".".
func dirOf(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return dir
}
