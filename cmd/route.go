package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/internal/design"
	"github.com/jjtimmons/vhelix/internal/route"
)

var (
	variantHelp = fmt.Sprintf(`routing variant, one of %v. 'atrail' is a single
scaffold through an Eulerian completion of the mesh, 'scaffold-free' walks every
edge once in each direction`, route.Variants)

	cacheHelp = "directory of a route cache, reused across runs on the same mesh"
)

// routeCmd is for finding a scaffold route through a mesh
var routeCmd = &cobra.Command{
	Use:                        "route [mesh]",
	Short:                      "Find a scaffold routing through a mesh",
	PreRun:                     bindFlags("cache"),
	Run:                        design.RouteCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Find a scaffold routing through the edges of a mesh. The mesh graph, its
Eulerian completion, the vertex and edge codes and the trails are written
next to the output as .dimacs, _multi.dimacs, .vcode, .ecode, .ntrail and
.etrail files.

Exits with an error if no routing exists.`,
	Example: "  vhelix route --in bunny.ply --variant atrail",
}

// set flags
func init() {
	routeCmd.Flags().StringP("in", "i", "", "input mesh <PLY|OBJ>")
	routeCmd.Flags().StringP("out", "o", "", "output path, dumps are named after it")
	routeCmd.Flags().StringP("variant", "r", string(route.ATrail), variantHelp)
	routeCmd.Flags().StringP("cache", "c", "", cacheHelp)

	RootCmd.AddCommand(routeCmd)
}
