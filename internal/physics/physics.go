// Package physics is a small rigid-body world used to relax helix bundles.
// Bodies are built from spheres and capsules, joined by damped zero-length
// springs, and advanced with semi-implicit Euler steps until they come to
// rest. A Context is created explicitly and must be closed by its owner.
package physics

import (
	"context"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.physics")
}

var (
	// ErrClosed is returned by every operation on a closed Context.
	ErrClosed = errors.New("physics context is closed")

	// ErrBadSettings means the material or sleep settings are out of range.
	ErrBadSettings = errors.New("invalid physics settings")

	// ErrNoShape means a body was requested without geometry.
	ErrNoShape = errors.New("rigid body needs at least one shape")

	// ErrForeignBody means a body of another (or no) context was passed in.
	ErrForeignBody = errors.New("body does not belong to this context")
)

// TimeStep of one simulation step in seconds.
const TimeStep = 1.0 / 60.0

const (
	// steps below the sleep threshold before a body counts as sleeping
	sleepSteps = 20

	// per second
	angularDamping = 0.05
)

// Settings of the world's material and sleep detection.
type Settings struct {
	StaticFriction  float64
	DynamicFriction float64
	Restitution     float64

	// SleepThreshold is the mass normalized kinetic energy below which a
	// body is considered at rest
	SleepThreshold float64

	// VisualDebugger requests a live debug connection, not available here
	VisualDebugger bool
}

// Validate checks the ranges of s.
func (s Settings) Validate() error {
	switch {
	case s.StaticFriction < 0 || s.DynamicFriction < 0:
		return errors.Wrap(ErrBadSettings, "friction must not be negative")
	case s.Restitution < 0 || s.Restitution > 1:
		return errors.Wrap(ErrBadSettings, "restitution must be within [0, 1]")
	case s.SleepThreshold < 0:
		return errors.Wrap(ErrBadSettings, "sleep threshold must not be negative")
	}
	return nil
}

// Context owns every body and joint of one simulation.
type Context struct {
	settings Settings
	bodies   []*Body
	joints   []*Joint
	steps    int
	closed   bool
}

// NewContext creates an empty world.
func NewContext(s Settings) (*Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.VisualDebugger {
		tracer().Infof("visual debugger requested but not supported, ignoring")
	}
	tracer().Debugf("physics context created: %+v", s)
	return &Context{settings: s}, nil
}

// Settings the context was created with.
func (c *Context) Settings() Settings {
	return c.settings
}

// Close releases every body and joint. Closing twice is allowed.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	for _, j := range c.joints {
		j.removed = true
	}
	for _, b := range c.bodies {
		b.removed = true
	}
	c.joints = nil
	c.bodies = nil
	c.closed = true
	tracer().Debugf("physics context closed after %d steps", c.steps)
	return nil
}

// CreateBody adds a dynamic body at pose with the given shapes.
func (c *Context) CreateBody(pose Transform, density float64, shapes ...Shape) (*Body, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if len(shapes) == 0 {
		return nil, ErrNoShape
	}
	b := newBody(pose, density, shapes)
	c.bodies = append(c.bodies, b)
	return b, nil
}

// DestroyBody removes b and every joint attached to it.
func (c *Context) DestroyBody(b *Body) error {
	if c.closed {
		return ErrClosed
	}
	i := c.indexOf(b)
	if i < 0 {
		return ErrForeignBody
	}
	c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
	b.removed = true

	kept := c.joints[:0]
	for _, j := range c.joints {
		if j.a == b || j.b == b {
			j.removed = true
			continue
		}
		kept = append(kept, j)
	}
	c.joints = kept
	return nil
}

// CreateSpring joins the local point frameA of a to the local point frameB of
// b. With b nil, frameB is a fixed point in world space.
func (c *Context) CreateSpring(a *Body, frameA r3.Vec, b *Body, frameB r3.Vec, stiffness, damping float64) (*Joint, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.indexOf(a) < 0 || (b != nil && c.indexOf(b) < 0) {
		return nil, ErrForeignBody
	}
	j := &Joint{a: a, b: b, frameA: frameA, frameB: frameB, stiffness: stiffness, damping: damping}
	c.joints = append(c.joints, j)
	a.quiet = 0
	if b != nil {
		b.quiet = 0
	}
	return j, nil
}

// Bodies currently in the world.
func (c *Context) Bodies() []*Body {
	return c.bodies
}

// Joints currently in the world.
func (c *Context) Joints() []*Joint {
	return c.joints
}

// Steps taken since creation.
func (c *Context) Steps() int {
	return c.steps
}

// Step advances the world by dt seconds.
func (c *Context) Step(dt float64) error {
	if c.closed {
		return ErrClosed
	}
	for _, j := range c.joints {
		j.apply()
	}
	for _, b := range c.bodies {
		if b.advance(dt) < c.settings.SleepThreshold {
			b.quiet++
		} else {
			b.quiet = 0
		}
	}
	c.steps++
	return nil
}

// Sleeping reports whether every body is at rest.
func (c *Context) Sleeping() bool {
	for _, b := range c.bodies {
		if !b.Sleeping() {
			return false
		}
	}
	return true
}

// Simulate steps the world at TimeStep until every body sleeps, ctx is done
// or maxSteps steps were taken (no limit when maxSteps <= 0). It returns the
// number of steps taken and the context's error if it stopped early because
// of ctx.
func (c *Context) Simulate(ctx context.Context, maxSteps int) (int, error) {
	n := 0
	for !c.Sleeping() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if maxSteps > 0 && n >= maxSteps {
			tracer().Infof("simulation stopped after %d steps without settling", n)
			break
		}
		if err := c.Step(TimeStep); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Context) indexOf(b *Body) int {
	for i, x := range c.bodies {
		if x == b {
			return i
		}
	}
	return -1
}
