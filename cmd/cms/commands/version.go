package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the CMS CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			done, err := renderStructured(versionInfo)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Version", "Commit", "Built")
			_ = table.Append([]string{versionInfo.Version, versionInfo.Commit, versionInfo.Built})
			_ = table.Render()

			return nil
		},
	}
}
