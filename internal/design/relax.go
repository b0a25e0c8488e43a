package design

import (
	"bytes"
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/config"
	"github.com/jjtimmons/vhelix/internal/mesh"
	"github.com/jjtimmons/vhelix/internal/physics"
	"github.com/jjtimmons/vhelix/internal/relax"
	"github.com/jjtimmons/vhelix/internal/route"
	"github.com/jjtimmons/vhelix/internal/rpoly"
)

// settleLimit bounds the simulation steps of a single settle.
const settleLimit = 20000

// ErrRelaxFailed is returned when the relaxation ends without a scene.
var ErrRelaxFailed = errors.New("relaxation failed")

// RelaxCmd is run from `vhelix relax`: it relaxes the mesh along a node trail
// file written by an earlier `vhelix route`.
func RelaxCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args, true)
	if fs.trail == "" {
		fs.trail = fs.base() + ".ntrail"
	}

	m, err := mesh.Read(fs.in)
	if err != nil {
		stderr.Fatal(err)
	}
	trails, err := readTrails(fs.trail)
	if err != nil {
		stderr.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := Relax(ctx, fs, c, m, trails); err != nil {
		stderr.Fatal(err)
	}
}

// DesignCmd is run from `vhelix design`: route, then relax the routed mesh.
func DesignCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := Design(ctx, fs, c); err != nil {
		stderr.Fatal(err)
	}
}

// Design routes the mesh of fs and relaxes the trail that was found.
func Design(ctx context.Context, fs *Flags, c *config.Config) (*relax.Result, error) {
	res, m, err := Route(fs, c)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, errors.Wrap(ErrNoTrail, res.Reason)
	}
	if len(res.Trails) == 0 {
		return nil, errors.Wrap(ErrNoTrail, "empty trail")
	}
	return Relax(ctx, fs, c, m, res.Trails)
}

// Relax relaxes the helices along trails and writes the best scene to fs.out.
// The run stops early when ctx is done or after c.PhysX.Timeout seconds, in
// which case the best scene so far is written.
func Relax(ctx context.Context, fs *Flags, c *config.Config, m *mesh.Mesh, trails [][]int) (*relax.Result, error) {
	if c.PhysX.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.PhysX.Timeout)*time.Second)
		defer cancel()
	}
	if c.PhysX.VisualDebugger {
		klog.Warningf("visual debugger requested, not available")
	}

	var out bytes.Buffer
	opts := relaxOptions(m, trails, fs.variant, c)
	opts.Out = &out

	start := time.Now()
	res := relax.Run(ctx, opts)
	for _, line := range splitLog(res.Log) {
		klog.Infof("%s", line)
	}
	klog.V(2).Infof("relaxation of %s took %v", m.Name, time.Since(start))

	if res.Status != relax.StatusSuccess || res.Best == nil {
		return res, errors.Wrapf(ErrRelaxFailed, "status %s", res.Status)
	}

	// read the scene back before handing it out
	parsed, err := rpoly.ParseString(out.String())
	if err != nil {
		return res, errors.Wrap(err, "written scene does not parse")
	}
	if len(parsed.Helices) != len(res.Best.Helices) {
		return res, errors.Wrapf(ErrRelaxFailed, "wrote %d of %d helices", len(parsed.Helices), len(res.Best.Helices))
	}

	if err := os.WriteFile(fs.out, out.Bytes(), 0644); err != nil {
		return res, errors.Wrapf(err, "Failed to write resulting mesh to \"%s\"", fs.out)
	}
	klog.Infof("wrote %s: %d helices", fs.out, len(parsed.Helices))
	return res, nil
}

// relaxOptions maps the settings file onto a relaxation run. More than one
// trail can only be a scaffold free routing.
func relaxOptions(m *mesh.Mesh, trails [][]int, variant route.Variant, c *config.Config) relax.Options {
	px := c.PhysX
	return relax.Options{
		Name:         m.Name,
		Positions:    m.Vertices,
		Trails:       trails,
		ScaffoldFree: variant == route.ScaffoldFree || len(trails) > 1,
		Physics: physics.Settings{
			StaticFriction:  px.StaticFriction,
			DynamicFriction: px.DynamicFriction,
			Restitution:     px.Restitution,
			SleepThreshold:  px.SleepThreshold,
			VisualDebugger:  px.VisualDebugger,
		},
		Scene: relax.SceneSettings{
			InitialScaling:    c.Scaling,
			DiscretizeLengths: px.DiscretizeLengths,
		},
		Helix: relax.HelixSettings{
			Density:              px.Density,
			SpringStiffness:      px.SpringStiffness,
			FixedSpringStiffness: px.FixedSpringStiffness,
			SpringDamping:        px.SpringDamping,
			AttachFixed:          px.AttachFixed,
		},
		Iterations:  px.Iterations,
		MinBases:    relax.DefaultMinBases,
		SettleLimit: settleLimit,
	}
}
