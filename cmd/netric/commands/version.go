package commands

import (
	"github.com/spf13/cobra"

	"github.com/netric/netric-sdk-go/pkg/netric"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the netric CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := netric.NewFields()
			info.Set("version", version)
			info.Set("commit", commit)
			info.Set("built", date)

			return renderProperties(cmd.OutOrStdout(), info)
		},
	}
}
