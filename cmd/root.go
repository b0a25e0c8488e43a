// Package cmd is for command line interactions with the vhelix application
package cmd

import (
	"flag"
	"log"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "vhelix",
	Short: `Route a DNA scaffold through a polyhedral mesh and relax the
resulting helix bundle`,
	Long: `
Design wireframe DNA origami from a polyhedral mesh (PLY or OBJ).

'vhelix route' finds a scaffold routing through the mesh edges, 'vhelix relax'
turns a routing into a helix bundle whose junctions are relaxed with a spring
model, and 'vhelix design' does both.`,
	Version:           "0.1.0",
	PersistentPreRun:  setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { klog.Flush() },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	defer klog.Flush()
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	RootCmd.PersistentFlags().AddGoFlagSet(fset)

	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file with a physX section <JSON|YAML|TOML>")
	RootCmd.PersistentFlags().String("trace", "", "developer trace level: error, info or debug")

	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
}

// bindFlags binds the named flags of the command being run to viper. Flags
// shared between commands are bound when the command runs so the last
// registered command does not win.
func bindFlags(names ...string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		for _, name := range names {
			viper.BindPFlag(name, cmd.Flags().Lookup(name))
		}
	}
}

// setup installs the klog formatter and, if asked for, the tracer.
func setup(cmd *cobra.Command, args []string) {
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	level, _ := cmd.Flags().GetString("trace")
	if level == "" {
		return
	}
	t := gologadapter.New()
	t.SetTraceLevel(tracing.TraceLevelFromString(level))
	tracing.SetTraceSelector(traceSelector{t})
}

// traceSelector hands out the same tracer for every package key.
type traceSelector struct {
	trace tracing.Trace
}

func (s traceSelector) Select(string) tracing.Trace {
	return s.trace
}
