package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artalog/escribano/internal/drive"
)

func newUploadCmd() *cobra.Command {
	var credentialsFile string
	var parentFolderID string

	cmd := &cobra.Command{
		Use:   "upload <dir>",
		Short: "Upload transcription text files to Google Docs",
		Long: `Upload walks a directory tree for .txt files and creates one Google Doc per
file, mirroring the local folder structure under a Drive parent folder.

Created IDs are recorded in drive_map.json at the root of the tree and saved
after every creation, so interrupted or repeated runs only upload what is
missing.`,
		Example: `  escribano upload data/archives --folder 1eHiqnzJHjiB65_Vaz9CgmvYH_oyatwmC`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyStringFlag(cmd, "credentials", &credentialsFile, cfg.Drive.CredentialsFile)
			applyStringFlag(cmd, "folder", &parentFolderID, cfg.Drive.ParentFolderID)
			if parentFolderID == "" {
				return fmt.Errorf("a Drive parent folder ID is required (--folder or drive.parent_folder_id)")
			}

			uploader, err := drive.NewUploader(cmd.Context(), credentialsFile, args[0], parentFolderID)
			if err != nil {
				return err
			}
			return uploader.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&credentialsFile, "credentials", "credentials.json", "Service account credentials JSON file")
	cmd.Flags().StringVar(&parentFolderID, "folder", "", "Drive parent folder ID for new documents")

	return cmd
}
