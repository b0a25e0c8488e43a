// Package relax turns a routed mesh into a bundle of rigid helices joined by
// springs and lets a physics simulation pull the structure into shape. Helix
// lengths are then tuned one base at a time, keeping changes that lower the
// total separation between connected strand ends.
package relax

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jjtimmons/vhelix/internal/physics"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.relax")
}

// ErrBadSettings means a relaxation parameter is out of range.
var ErrBadSettings = errors.New("invalid relaxation settings")

// DefaultMinBases is the shortest helix the optimizer will try.
const DefaultMinBases = 7

// Status is the outcome of a relaxation run.
type Status int

const (
	StatusSettingsError Status = -1
	StatusFailure       Status = 0
	StatusSuccess       Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	}
	return "settings error"
}

// Relaxation tunes the base counts of a scene's helices.
type Relaxation struct {
	scene      *Scene
	phys       *physics.Context
	iterations int
	minBases   int

	// simulation steps allowed per settle, unlimited when <= 0
	settleLimit int
}

// NewRelaxation tunes scene for at most iterations settle rounds.
func NewRelaxation(phys *physics.Context, scene *Scene, iterations, minBases, settleLimit int) *Relaxation {
	if minBases <= 0 {
		minBases = DefaultMinBases
	}
	return &Relaxation{scene: scene, phys: phys, iterations: iterations, minBases: minBases, settleLimit: settleLimit}
}

// settle runs the simulation until the scene is at rest. A canceled ctx is
// not an error here: the scene is measured as it is.
func (r *Relaxation) settle(ctx context.Context) error {
	steps, err := r.phys.Simulate(ctx, r.settleLimit)
	if err != nil && ctx.Err() == nil {
		return err
	}
	tracer().Debugf("settled after %d steps", steps)
	return nil
}

// GradientDescent settles the scene, then tries one base less and one base
// more on every helix in turn, resettling from the initial layout each time.
// A change is kept if it lowers the total separation, otherwise the helix goes
// back to its accepted count. store is called with every improvement. It
// stops early when ctx is done or the iterations are used up.
func (r *Relaxation) GradientDescent(ctx context.Context, store func(*Scene, Separation)) error {
	if err := r.settle(ctx); err != nil {
		return err
	}
	best := r.scene.Separation()
	store(r.scene, best)
	if r.iterations == 1 {
		return nil
	}

	k := 1
	for i, h := range r.scene.helices {
		start := h.BaseCount()
		accepted := start
		for _, delta := range []int{-1, 1} {
			if ctx.Err() != nil || k >= r.iterations {
				return nil
			}
			bases := start + delta
			if bases < r.minBases {
				bases = r.minBases
			}
			if err := h.Recreate(r.phys, bases, h.InitialTransform()); err != nil {
				return errors.Wrapf(err, "resizing %s", helixName(i))
			}
			r.scene.ResetTransforms()
			if err := r.settle(ctx); err != nil {
				return err
			}

			sep := r.scene.Separation()
			if sep.Total < best.Total {
				tracer().Debugf("%s: %d -> %d bases, total %s nm", helixName(i), accepted, bases, formatFloat(sep.Total))
				best = sep
				accepted = bases
				store(r.scene, sep)
			} else if err := h.Recreate(r.phys, accepted, h.InitialTransform()); err != nil {
				return errors.Wrapf(err, "restoring %s", helixName(i))
			}
			k++
		}
	}
	return nil
}

// Options of a relaxation run.
type Options struct {
	// Name of the structure, used for the output file name in messages
	Name string

	Positions []r3.Vec

	// Trails are closed vertex walks: a single scaffold trail, or with
	// ScaffoldFree set, one per strand
	Trails       [][]int
	ScaffoldFree bool

	Physics    physics.Settings
	Scene      SceneSettings
	Helix      HelixSettings
	Iterations int

	// MinBases defaults to DefaultMinBases
	MinBases int

	// SettleLimit bounds each settle in simulation steps, none when <= 0
	SettleLimit int

	// Out receives the rpoly of the best scene found, if set
	Out io.Writer
}

func (o Options) validate() error {
	switch {
	case o.Scene.InitialScaling <= 0:
		return errors.Wrap(ErrBadSettings, "scaling must be positive")
	case o.Iterations < 1:
		return errors.Wrap(ErrBadSettings, "iterations must be at least one")
	case o.Helix.Density <= 0:
		return errors.Wrap(ErrBadSettings, "density must be positive")
	case o.Helix.SpringStiffness < 0 || o.Helix.FixedSpringStiffness < 0 || o.Helix.SpringDamping < 0:
		return errors.Wrap(ErrBadSettings, "spring parameters must not be negative")
	case len(o.Trails) == 0:
		return errors.Wrap(ErrBadSettings, "no trail to relax")
	}
	return o.Physics.Validate()
}

// Result of a relaxation run. Log holds the user facing messages.
type Result struct {
	Status  Status
	Log     string
	Initial Separation
	Final   Separation
	Best    *SceneDescription
}

// Run builds the scene for opts, relaxes it and writes the best scene to
// opts.Out. Failures are reported through the result's status and log.
func Run(ctx context.Context, opts Options) *Result {
	var log strings.Builder
	res := &Result{Status: StatusSuccess}
	fail := func(status Status, format string, args ...interface{}) *Result {
		fmt.Fprintf(&log, format, args...)
		res.Status = status
		res.Log = log.String()
		return res
	}
	popup := func(msg string, err error) *Result {
		return fail(StatusFailure, "POPUP_ERR%s\n%vPOPUP_END\n", msg, err)
	}

	if err := opts.validate(); err != nil {
		return fail(StatusSettingsError, "%v\n", err)
	}

	phys, err := physics.NewContext(opts.Physics)
	if err != nil {
		return fail(StatusSettingsError, "%v\n", err)
	}
	defer phys.Close()

	scene := NewScene(phys, opts.Scene, opts.Helix)
	if opts.ScaffoldFree {
		err = scene.SetScaffoldFreeData(opts.Positions, opts.Trails)
		if err == nil {
			err = scene.SetupScaffoldFreeHelices()
		}
	} else {
		err = scene.SetData(opts.Positions, opts.Trails[0])
		if err == nil {
			err = scene.SetupHelices()
		}
	}
	if err != nil {
		return popup("Failed to read scene", err)
	}

	res.Initial = scene.Separation()
	fmt.Fprintf(&log, "Running simulation for scene, outputting to %s.rpoly\n", opts.Name)
	fmt.Fprintf(&log, "Initial: %s\n", res.Initial)
	fmt.Fprintf(&log, "Press ^C to stop the relaxation....\n")

	relaxation := NewRelaxation(phys, scene, opts.Iterations, opts.MinBases, opts.SettleLimit)
	err = relaxation.GradientDescent(ctx, func(s *Scene, sep Separation) {
		res.Final = sep
		res.Best = Describe(s)
	})
	if err != nil {
		return popup("Relaxation failed", err)
	}
	fmt.Fprintf(&log, "Result: %s\n", res.Final)

	if opts.Out != nil && res.Best != nil {
		if err := writeResult(opts.Out, opts.Name, res); err != nil {
			return fail(StatusFailure, "Failed to write resulting mesh to \"%s.rpoly\": %v\n", opts.Name, err)
		}
	}

	res.Log = log.String()
	return res
}

func writeResult(w io.Writer, name string, res *Result) error {
	_, err := fmt.Fprintf(w, "# Relaxation of %s file. %d helices.\n# Total separation: Initial: %s, final: %s\n",
		name, len(res.Best.Helices), res.Initial, res.Final)
	if err != nil {
		return err
	}
	return res.Best.Write(w)
}
