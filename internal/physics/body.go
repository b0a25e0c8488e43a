package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ShapeKind selects the geometry of a Shape.
type ShapeKind int

const (
	// Sphere of Radius
	Sphere ShapeKind = iota
	// Capsule along the local x axis: a cylinder of 2*HalfHeight capped by
	// hemispheres of Radius
	Capsule
)

// Shape is one piece of a body's geometry, placed by Pose in body space.
type Shape struct {
	Kind       ShapeKind
	Radius     float64
	HalfHeight float64
	Pose       Transform
}

// SphereShape places a sphere in body space.
func SphereShape(radius float64, pose Transform) Shape {
	return Shape{Kind: Sphere, Radius: radius, Pose: pose}
}

// CapsuleShape places an x axis capsule in body space.
func CapsuleShape(radius, halfHeight float64, pose Transform) Shape {
	return Shape{Kind: Capsule, Radius: radius, HalfHeight: halfHeight, Pose: pose}
}

func (s Shape) volume() float64 {
	ball := 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	if s.Kind == Capsule {
		return ball + math.Pi*s.Radius*s.Radius*2*s.HalfHeight
	}
	return ball
}

// inertia about the body origin for a shape of mass m, isotropic
// approximation.
func (s Shape) inertia(m float64) float64 {
	own := 0.4 * m * s.Radius * s.Radius
	if s.Kind == Capsule {
		l := 2*s.HalfHeight + 2*s.Radius
		own = m * (3*s.Radius*s.Radius + l*l) / 12
	}
	return own + m*r3.Norm2(s.Pose.P)
}

// Body is a dynamic rigid body. Its origin is treated as the center of mass.
type Body struct {
	pose    Transform
	vel     r3.Vec
	angVel  r3.Vec
	force   r3.Vec
	torque  r3.Vec
	mass    float64
	inertia float64
	shapes  []Shape

	// consecutive steps below the sleep threshold
	quiet   int
	removed bool
}

func newBody(pose Transform, density float64, shapes []Shape) *Body {
	b := &Body{pose: pose, shapes: shapes}
	for _, s := range shapes {
		m := density * s.volume()
		b.mass += m
		b.inertia += s.inertia(m)
	}
	return b
}

// Pose is the body's world transform.
func (b *Body) Pose() Transform {
	return b.pose
}

// SetPose teleports the body, clearing its velocities and waking it.
func (b *Body) SetPose(t Transform) {
	b.pose = t
	b.vel = r3.Vec{}
	b.angVel = r3.Vec{}
	b.quiet = 0
}

// Mass of the body.
func (b *Body) Mass() float64 {
	return b.mass
}

// Shapes of the body.
func (b *Body) Shapes() []Shape {
	return b.shapes
}

// Sleeping reports whether the body has been at rest long enough.
func (b *Body) Sleeping() bool {
	return b.quiet >= sleepSteps
}

// WorldPoint maps a body-local point to world space.
func (b *Body) WorldPoint(local r3.Vec) r3.Vec {
	return b.pose.Apply(local)
}

// pointVelocity is the world velocity of the body point at world position p.
func (b *Body) pointVelocity(p r3.Vec) r3.Vec {
	return r3.Add(b.vel, r3.Cross(b.angVel, r3.Sub(p, b.pose.P)))
}

// push applies force f at world position p.
func (b *Body) push(f, p r3.Vec) {
	b.force = r3.Add(b.force, f)
	b.torque = r3.Add(b.torque, r3.Cross(r3.Sub(p, b.pose.P), f))
}

// advance is one semi-implicit Euler step. It returns the mass normalized
// kinetic energy after the step.
func (b *Body) advance(dt float64) float64 {
	if b.mass > 0 {
		b.vel = r3.Add(b.vel, r3.Scale(dt/b.mass, b.force))
	}
	if b.inertia > 0 {
		b.angVel = r3.Add(b.angVel, r3.Scale(dt/b.inertia, b.torque))
	}
	b.angVel = r3.Scale(1-angularDamping*dt, b.angVel)

	b.pose.P = r3.Add(b.pose.P, r3.Scale(dt, b.vel))
	b.pose.Q = integrate(b.pose.Q, b.angVel, dt)
	b.force = r3.Vec{}
	b.torque = r3.Vec{}

	energy := 0.5 * r3.Norm2(b.vel)
	if b.mass > 0 {
		energy += 0.5 * b.inertia / b.mass * r3.Norm2(b.angVel)
	}
	return energy
}
