package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/internal/design"
	"github.com/jjtimmons/vhelix/internal/route"
)

// designCmd is for routing and relaxing a mesh in one go
var designCmd = &cobra.Command{
	Use:                        "design [mesh]",
	Short:                      "Route a mesh and relax its helix bundle",
	PreRun:                     bindFlags("scaling", "cache"),
	Run:                        design.DesignCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Find a scaffold routing through a mesh, then build and relax its helix
bundle. Equivalent to 'vhelix route' followed by 'vhelix relax', without
writing the intermediate files unless --dump is set.`,
	Example: "  vhelix design bunny.ply --scaling 2 --settings settings.json",
	Aliases: []string{"make"},
}

// set flags
func init() {
	designCmd.Flags().StringP("in", "i", "", "input mesh <PLY|OBJ>")
	designCmd.Flags().StringP("out", "o", "", "output rpoly file")
	designCmd.Flags().StringP("variant", "r", string(route.ATrail), variantHelp)
	designCmd.Flags().Float64P("scaling", "x", 1, scalingHelp)
	designCmd.Flags().StringP("cache", "c", "", cacheHelp)
	designCmd.Flags().BoolP("dump", "d", false, "also write the graph, code and trail files")

	RootCmd.AddCommand(designCmd)
}
