package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"geotrail/internal/config"
	"geotrail/internal/importer"
	"geotrail/internal/topology"
)

// newLoadPathsCmd imports a GeoJSON file of LineStrings as paths.
func newLoadPathsCmd() *cobra.Command {
	var (
		srid      int
		intersect bool
		dryRun    bool
		structure string
		comments  []string
	)

	cmd := &cobra.Command{
		Use:   "loadpaths <file.geojson>",
		Short: "Import LineString features as paths",
		Long: `Import LineString features as paths.

Features outside the configured spatial extent are skipped. Inserted paths
go through the usual network maintenance, so a path crossing an existing one
splits both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := importer.Options{
				SRID:       resolveSRID(srid),
				TargetSRID: config.SRID(),
				Extent:     config.SpatialExtent(),
				Intersect:  intersect,
				Structure:  structure,
				Comments:   comments,
				DryRun:     dryRun,
			}
			db := config.GetDB()
			res, err := importer.LoadPaths(db, topology.NewService(db), args[0], opts,
				func(format string, a ...any) {
					fmt.Fprintf(cmd.OutOrStdout(), format+"\n", a...)
				})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d failed, %d skipped\n",
				res.Created, res.Failed, res.Skipped)
			return nil
		},
	}

	// The default is resolved at run time, after the environment is loaded.
	cmd.Flags().IntVar(&srid, "srid", 0, "SRID of the file's coordinates (default: the configured SRID)")
	cmd.Flags().BoolVarP(&intersect, "intersect", "i", false, "keep features merely intersecting the spatial extent")
	cmd.Flags().BoolVar(&dryRun, "dry", false, "parse the file without writing anything")
	cmd.Flags().StringVar(&structure, "structure", "", "structure to attach the paths to")
	cmd.Flags().StringArrayVar(&comments, "comment", nil, "feature property appended to path comments (repeatable)")

	return cmd
}

// resolveSRID falls back to the configured SRID when the flag was left unset.
func resolveSRID(srid int) int {
	if srid == 0 {
		return config.SRID()
	}
	return srid
}
