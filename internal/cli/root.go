package cli

import (
	"context"

	"github.com/spf13/cobra"

	"geotrail/internal/config"
	"geotrail/internal/logger"
)

// Execute runs the management CLI. Every subcommand talks to the same
// database the API server uses, so the commands can run while the server is
// up.
func Execute() error {
	root := &cobra.Command{
		Use:          "geotrailctl",
		Short:        "Maintenance commands for the trail network",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup()
			config.InitDB()
		},
	}

	root.AddCommand(newLoadPathsCmd())
	root.AddCommand(newReorderCmd())
	root.AddCommand(newDuplicatesCmd())

	return root.ExecuteContext(context.Background())
}
