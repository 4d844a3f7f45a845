package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/spf13/cobra"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	var (
		preview   bool
		rendition string
		directory string
		fileName  string
		progress  bool
	)

	cmd := &cobra.Command{
		Use:   "download ASSET_ID",
		Short: "Download an asset",
		Long:  "Download an asset's native file or a named rendition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &cms.DownloadOptions{
				StorageDirectory: directory,
				FileName:         fileName,
			}

			if progress {
				opts.Progress = func(fraction float64) {
					fmt.Fprintf(os.Stderr, "\r%.0f%%", fraction*100)
				}
			}

			ctx := context.Background()
			req := itemsRequest(preview)

			var result *cms.DownloadResult
			if rendition != "" {
				result, err = client.Assets().DownloadRendition(ctx, args[0], rendition, req, opts)
			} else {
				result, err = client.Assets().Download(ctx, args[0], req, opts)
			}

			if progress {
				fmt.Fprintln(os.Stderr)
			}

			if err != nil {
				return fmt.Errorf("failed to download asset: %w", err)
			}

			fmt.Fprintln(os.Stdout, result.Location)

			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "read from the preview scope")
	cmd.Flags().StringVarP(&rendition, "rendition", "r", "", "rendition name (native file when empty)")
	cmd.Flags().StringVarP(&directory, "directory", "d", "", "directory to store the file in")
	cmd.Flags().StringVar(&fileName, "name", "", "file name override")
	cmd.Flags().BoolVar(&progress, "progress", false, "report download progress")

	return cmd
}
