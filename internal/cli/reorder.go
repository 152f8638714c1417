package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"geotrail/internal/config"
	"geotrail/internal/topology"
)

// newReorderCmd repairs aggregation ordering across the whole network.
func newReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder_topologies",
		Short: "Repair the traversal order of every topology",
		Long: `Repair the traversal order of every topology.

Network edits can leave a topology with duplicated or gapping order values.
This command renumbers the aggregations of each topology along its geometry
and reports topologies whose segments no longer form a single line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := topology.NewService(config.GetDB())
			updated, errs, err := svc.ReorderAll()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d topologies updated\n", updated)
			if len(errs) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Topologies with errors:")
				for _, te := range errs {
					fmt.Fprintln(cmd.OutOrStdout(), te.String())
				}
			}
			return nil
		},
	}
}
