package physics

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid transform: rotate by Q, then translate by P.
type Transform struct {
	P r3.Vec
	Q quat.Number
}

// Identity is the rotation that does nothing.
var Identity = quat.Number{Real: 1}

// At is the transform translating to p without rotation.
func At(p r3.Vec) Transform {
	return Transform{P: p, Q: Identity}
}

// Apply maps a local point to the transform's parent frame.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Add(t.P, Rotate(t.Q, v))
}

// Rotate rotates v by the unit quaternion q.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// AxisAngle is the rotation by angle radians around axis.
func AxisAngle(angle float64, axis r3.Vec) quat.Number {
	return quat.Number(r3.NewRotation(angle, axis))
}

// RotationFromTo is the shortest rotation taking the direction from onto the
// direction to.
func RotationFromTo(from, to r3.Vec) quat.Number {
	from, to = Normalize(from), Normalize(to)
	d := r3.Dot(from, to)
	if d >= 1 {
		return Identity
	}
	if d < 1e-6-1 {
		axis := r3.Cross(r3.Vec{X: 1}, from)
		if r3.Norm2(axis) <= 1e-6 {
			axis = r3.Cross(r3.Vec{Y: 1}, from)
		}
		return AxisAngle(math.Pi, Normalize(axis))
	}
	s := math.Sqrt((1 + d) * 2)
	c := r3.Cross(from, to)
	q := quat.Number{Real: s / 2, Imag: c.X / s, Jmag: c.Y / s, Kmag: c.Z / s}
	return quat.Scale(1/quat.Abs(q), q)
}

// Normalize returns the unit vector of v, or the zero vector for zero input.
func Normalize(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// integrate advances orientation q by angular velocity w over dt.
func integrate(q quat.Number, w r3.Vec, dt float64) quat.Number {
	spin := quat.Mul(quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z}, q)
	q = quat.Add(q, quat.Scale(dt/2, spin))
	return quat.Scale(1/quat.Abs(q), q)
}
