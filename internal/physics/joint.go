package physics

import "gonum.org/v1/gonum/spatial/r3"

// Joint is a damped spring of rest length zero between an anchor on body A
// and either an anchor on body B or, when B is nil, a fixed world point.
type Joint struct {
	a, b      *Body
	frameA    r3.Vec
	frameB    r3.Vec
	stiffness float64
	damping   float64
	removed   bool
}

// Anchors are the world positions of both ends.
func (j *Joint) Anchors() (r3.Vec, r3.Vec) {
	pa := j.a.WorldPoint(j.frameA)
	if j.b == nil {
		return pa, j.frameB
	}
	return pa, j.b.WorldPoint(j.frameB)
}

// Distance between the two anchors.
func (j *Joint) Distance() float64 {
	pa, pb := j.Anchors()
	return r3.Norm(r3.Sub(pb, pa))
}

// Bodies joined by j. The second is nil for a world spring.
func (j *Joint) Bodies() (*Body, *Body) {
	return j.a, j.b
}

// Removed reports whether the joint was destroyed with one of its bodies.
func (j *Joint) Removed() bool {
	return j.removed
}

func (j *Joint) apply() {
	pa, pb := j.Anchors()
	rel := j.a.pointVelocity(pa)
	if j.b != nil {
		rel = r3.Sub(j.b.pointVelocity(pb), rel)
	} else {
		rel = r3.Scale(-1, rel)
	}
	f := r3.Add(r3.Scale(j.stiffness, r3.Sub(pb, pa)), r3.Scale(j.damping, rel))
	j.a.push(f, pa)
	if j.b != nil {
		j.b.push(r3.Scale(-1, f), pb)
	}
}
