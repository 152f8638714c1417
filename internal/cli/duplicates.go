package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"geotrail/internal/config"
	"geotrail/internal/topology"
)

// newDuplicatesCmd removes paths whose geometry is an exact copy of another
// path's.
func newDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove_duplicate_paths",
		Short: "Delete duplicated paths, keeping one copy of each",
		Long: `Delete duplicated paths, keeping one copy of each.

Two paths are duplicates when their geometries are byte-for-byte equal; a
reversed copy is not a duplicate. The kept copy is the first visible one, or
the oldest when none is visible. Topologies registered on a deleted path are
moved to the kept copy first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := topology.NewService(config.GetDB())
			deleted, err := svc.RemoveDuplicates(func(format string, a ...any) {
				fmt.Fprintf(cmd.OutOrStdout(), format+"\n", a...)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d duplicate paths have been deleted\n", deleted)
			return nil
		},
	}
}
