package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/drive"
	"github.com/artalog/escribano/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string
	var archivesRoot string
	var credentialsFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scan/transcription web viewer",
		Long: `Starts a read-only web viewer on the specified port. Pick an archive and a
page to see the scan image beside its transcription.

Transcriptions come from the uploaded Google Doc when drive_map.json and
service account credentials are available, otherwise from the local .txt file
beside each scan.`,
		Example: `  # Serve the default archives root on port 8888
  escribano serve

  # Serve a custom root on a custom port
  escribano serve --archives ./data/archives --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyStringFlag(cmd, "port", &port, cfg.Port)
			applyStringFlag(cmd, "archives", &archivesRoot, cfg.ArchivesRoot)
			applyStringFlag(cmd, "credentials", &credentialsFile, cfg.Drive.CredentialsFile)

			handler := handlers.New(archivesRoot, newDriveReader(cmd.Context(), credentialsFile, archivesRoot))

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/archives", handler.HandleArchives)
			mux.HandleFunc("/api/archives/", handler.HandleArchiveDetail)
			mux.HandleFunc("/files/", handler.HandleFiles)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Viewer available", "addr", addr, "url", "http://localhost"+addr, "archives", archivesRoot)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&archivesRoot, "archives", "data/archives", "Archives root directory")
	cmd.Flags().StringVar(&credentialsFile, "credentials", "", "Service account credentials JSON file for Drive-backed transcriptions")

	return cmd
}

// newDriveReader wires the optional Drive backend: it requires both readable
// credentials and an existing upload mapping, and the viewer degrades to
// local .txt files without them.
func newDriveReader(ctx context.Context, credentialsFile, archivesRoot string) *drive.Reader {
	if credentialsFile == "" {
		return nil
	}
	mappingPath := filepath.Join(archivesRoot, drive.MappingFileName)
	if _, err := os.Stat(mappingPath); err != nil {
		slog.Info("No upload mapping found, serving local transcriptions", "path", mappingPath)
		return nil
	}

	reader, err := drive.NewReader(ctx, credentialsFile, mappingPath)
	if err != nil {
		slog.Warn("Drive reader unavailable, serving local transcriptions", "err", err)
		return nil
	}
	slog.Info("Drive-backed transcriptions enabled", "mapping", mappingPath)
	return reader
}
