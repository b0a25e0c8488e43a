package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/internal/design"
)

var scalingHelp = `factor applied to the mesh coordinates before relaxing, meshes
are read in nanometers`

// relaxCmd is for relaxing a routed mesh
var relaxCmd = &cobra.Command{
	Use:                        "relax [mesh]",
	Short:                      "Relax the helix bundle of a routed mesh",
	PreRun:                     bindFlags("scaling"),
	Run:                        design.RelaxCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Build one double helix per trail edge of a routed mesh and relax the bundle
with a spring model. Helix lengths are shortened or extended one base at a
time for as long as the total distance between connected strand ends
shrinks. The best scene is written as an rpoly file.

The trail is read from --trail, by default the .ntrail file 'vhelix route'
wrote for the same output. Physics parameters are read from the physX section
of the settings file. Press ^C to stop early and keep the best scene so far.`,
	Example: "  vhelix relax --in bunny.ply --trail bunny.ntrail --scaling 2",
}

// set flags
func init() {
	relaxCmd.Flags().StringP("in", "i", "", "input mesh <PLY|OBJ>")
	relaxCmd.Flags().StringP("out", "o", "", "output rpoly file")
	relaxCmd.Flags().StringP("trail", "t", "", "node trail file, one trail per line")
	relaxCmd.Flags().StringP("variant", "r", "", "routing variant the trail was made with")
	relaxCmd.Flags().Float64P("scaling", "x", 1, scalingHelp)

	RootCmd.AddCommand(relaxCmd)
}
