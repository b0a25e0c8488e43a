// Package design holds the command handlers of vhelix: flag parsing, the
// route and relax pipelines and the files they write.
package design

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/config"
	"github.com/jjtimmons/vhelix/internal/route"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.design")
}

// meshExts are the mesh formats guessInput looks for, in order of preference.
var meshExts = []string{".ply", ".obj"}

// Flags contains parsed cobra Flags like "in", "out", "variant", etc that are used by multiple commands.
type Flags struct {
	// the mesh file to read
	in string

	// the rpoly file to write, dumps are written next to it
	out string

	// the routing variant
	variant route.Variant

	// node trail file read by relax instead of routing
	trail string

	// whether to write the intermediate graph, code and trail files
	dump bool
}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(in, out, trail string, variant route.Variant, dump bool) *Flags {
	if out == "" {
		out = (&inputParser{}).guessOutput(in)
	}
	return &Flags{
		in:      in,
		out:     out,
		variant: variant,
		trail:   trail,
		dump:    dump,
	}
}

// inputParser contains methods for parsing flags from the input &cobra.Command.
type inputParser struct{}

// parseCmdFlags gathers the in path, out path, etc from a cobra cmd object
// returns Flags and a Config struct for the route and relax pipelines.
func parseCmdFlags(cmd *cobra.Command, args []string, strict bool) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) > 0 {
			fs.in = args[0]
		} else if fs.in, err = p.guessInput(); strict && err != nil {
			// check whether an input file was specified
			cmd.Help()
			stderr.Fatal(err)
		}
	}

	if fs.out, err = cmd.Flags().GetString("out"); fs.out == "" || err != nil {
		fs.out = p.guessOutput(fs.in) // guess at an output name

		if strict && fs.out == "" {
			cmd.Help()
			stderr.Fatal("no output path")
		}
	}

	variant, err := cmd.Flags().GetString("variant")
	if err != nil {
		variant = string(route.ATrail) // relax reads a trail and needs no variant
	}
	if fs.variant, err = p.parseVariant(variant); strict && err != nil {
		cmd.Help()
		stderr.Fatal(err)
	}

	fs.trail, _ = cmd.Flags().GetString("trail")
	fs.dump, _ = cmd.Flags().GetBool("dump")

	tracer().Debugf("flags: %+v", *fs)
	return fs, c
}

// guessInput returns the first mesh file in the current directory. Is used
// if the user hasn't specified an input file.
func (p *inputParser) guessInput() (in string, err error) {
	dir, _ := filepath.Abs(".")
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, ext := range meshExts {
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			if strings.ToLower(filepath.Ext(file.Name())) == ext {
				return file.Name(), nil
			}
		}
	}

	return "", fmt.Errorf("failed: no input argument set and no mesh file found in %s", dir)
}

// guessOutput gets an output path from an input path (if no output path is
// specified). It uses the same name as the input path to create an output.
func (p *inputParser) guessOutput(in string) (out string) {
	if in == "" {
		return ""
	}
	ext := filepath.Ext(in)
	noExt := in[0 : len(in)-len(ext)]
	return noExt + ".rpoly"
}

// parseVariant checks the variant name against the known routers.
func (p *inputParser) parseVariant(name string) (route.Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return route.ATrail, nil
	}
	for _, v := range route.Variants {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("failed: unknown variant %q, expected one of %v", name, route.Variants)
}

// base is the output path without its extension, the stem of every dump.
func (fs *Flags) base() string {
	return strings.TrimSuffix(fs.out, filepath.Ext(fs.out))
}
