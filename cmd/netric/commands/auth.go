package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netric/netric-sdk-go/pkg/netric"
)

// NewAuthCommand creates the auth command, which checks the configured
// credentials by obtaining a session token.
func NewAuthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with the configured application credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, config, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			result := netric.NewFields()
			result.Set("server", config.Server)
			result.Set("application_id", config.ApplicationID)
			result.Set("status", "authenticated")

			return renderProperties(cmd.OutOrStdout(), result)
		},
	}
}
