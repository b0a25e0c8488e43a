package relax

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jjtimmons/vhelix/internal/physics"
)

// ErrHelixTooShort means the geometry asked for a helix of no length. The
// structure has to be scaled up.
var ErrHelixTooShort = errors.New("Helix length is too short. Rescale the structure so that the length of the structure is at least the diameter of the cylinder approximation")

// AttachmentPoint names one of the four strand ends of a helix.
type AttachmentPoint int

const (
	ForwardThreePrime AttachmentPoint = iota
	ForwardFivePrime
	BackwardThreePrime
	BackwardFivePrime
)

var pointNames = [...]string{"f3'", "f5'", "b3'", "b5'"}

func (p AttachmentPoint) String() string {
	if p < 0 || int(p) >= len(pointNames) {
		return "none"
	}
	return pointNames[p]
}

// ParseAttachmentPoint is the inverse of AttachmentPoint.String.
func ParseAttachmentPoint(s string) (AttachmentPoint, bool) {
	for i, name := range pointNames {
		if name == s {
			return AttachmentPoint(i), true
		}
	}
	return -1, false
}

var zAxis = r3.Vec{Z: 1}

// LocalFrame is the body space position of an attachment point on a helix of
// the given number of bases.
func LocalFrame(p AttachmentPoint, bases int) r3.Vec {
	offset := r3.Vec{Z: BasesToLength(bases) / 2}
	up := r3.Vec{Y: Radius}
	turn := func(deg float64) r3.Vec {
		return physics.Rotate(physics.AxisAngle(toRadians(deg), zAxis), up)
	}

	switch p {
	case ForwardThreePrime:
		return r3.Add(turn(BasesToRotation(bases)), offset)
	case ForwardFivePrime:
		return r3.Sub(up, offset)
	case BackwardThreePrime:
		return r3.Sub(turn(-OppositeRotation), offset)
	case BackwardFivePrime:
		return r3.Add(turn(BasesToRotation(bases)-OppositeRotation), offset)
	}
	return r3.Vec{}
}

// HelixSettings are the body and spring parameters of every helix.
type HelixSettings struct {
	Density              float64
	SpringStiffness      float64
	FixedSpringStiffness float64
	SpringDamping        float64
	AttachFixed          bool
}

// Connection is the spring from one attachment point to a point of another
// helix.
type Connection struct {
	Helix *Helix
	Point AttachmentPoint
	Joint *physics.Joint
}

// Connected reports whether the connection is in use.
func (c Connection) Connected() bool {
	return c.Helix != nil && c.Joint != nil
}

// Helix is a rigid body approximating a double helix of a number of bases,
// with four attachment points.
type Helix struct {
	settings *HelixSettings
	body     *physics.Body
	fixed    *physics.Joint
	joints   [4]Connection

	bases            int
	initialBases     int
	initialTransform physics.Transform
}

// NewHelix creates the helix body in phys.
func NewHelix(phys *physics.Context, settings *HelixSettings, bases int, t physics.Transform) (*Helix, error) {
	h := &Helix{settings: settings, initialBases: bases, initialTransform: t}
	if err := h.createRigidBody(phys, bases, t); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Helix) createRigidBody(phys *physics.Context, bases int, t physics.Transform) error {
	length := BasesToLength(bases)
	if length <= 0 {
		return errors.Wrapf(ErrHelixTooShort, "helix length %g (%d bases)", length, bases)
	}

	radius := SphereRadius * approximationRadiusMultiplier
	offset := Radius - radius + SphereRadius
	low := r3.Vec{Y: offset, Z: -length/2 + radius}
	high := r3.Vec{Y: offset, Z: length/2 - radius}
	spin := func(deg float64, v r3.Vec) physics.Transform {
		return physics.At(physics.Rotate(physics.AxisAngle(toRadians(deg), zAxis), v))
	}

	var shapes []physics.Shape
	if length > radiusPlusSphereRadius*2 {
		shapes = append(shapes, physics.CapsuleShape(radiusPlusSphereRadius, length/2-radiusPlusSphereRadius,
			physics.Transform{Q: physics.AxisAngle(math.Pi/2, r3.Vec{Y: -1})}))
	}
	shapes = append(shapes,
		physics.SphereShape(radius, physics.At(low)),
		physics.SphereShape(radius, spin(-OppositeRotation, low)),
		physics.SphereShape(radius, spin(BasesToRotation(bases), high)),
		physics.SphereShape(radius, spin(BasesToRotation(bases)-OppositeRotation, high)),
	)

	body, err := phys.CreateBody(t, h.settings.Density, shapes...)
	if err != nil {
		return errors.Wrap(err, "creating helix body")
	}
	h.body = body

	if h.settings.AttachFixed {
		h.fixed, err = phys.CreateSpring(body, r3.Vec{}, nil, t.P, h.settings.FixedSpringStiffness, h.settings.SpringDamping)
		if err != nil {
			return errors.Wrap(err, "fixing helix")
		}
	}
	h.bases = bases
	return nil
}

// Recreate replaces the helix body by one of a new base count at t and
// re-attaches every existing connection at the new attachment frames.
func (h *Helix) Recreate(phys *physics.Context, bases int, t physics.Transform) error {
	saved := h.joints
	if err := phys.DestroyBody(h.body); err != nil {
		return errors.Wrap(err, "destroying helix body")
	}
	h.body, h.fixed = nil, nil
	for p, c := range saved {
		if c.Connected() {
			c.Helix.joints[c.Point] = Connection{}
		}
		h.joints[p] = Connection{}
	}

	if err := h.createRigidBody(phys, bases, t); err != nil {
		return err
	}
	for p, c := range saved {
		if !c.Connected() {
			continue
		}
		// a connection to itself is saved twice
		if c.Helix == h && c.Point < AttachmentPoint(p) {
			continue
		}
		if err := h.Attach(phys, c.Helix, AttachmentPoint(p), c.Point); err != nil {
			return err
		}
	}
	return nil
}

// Attach joins this point of h to that point of other with a spring.
func (h *Helix) Attach(phys *physics.Context, other *Helix, this, that AttachmentPoint) error {
	j, err := phys.CreateSpring(
		h.body, LocalFrame(this, h.bases),
		other.body, LocalFrame(that, other.bases),
		h.settings.SpringStiffness, h.settings.SpringDamping)
	if err != nil {
		return errors.Wrapf(err, "attaching %s to %s", this, that)
	}
	h.joints[this] = Connection{Helix: other, Point: that, Joint: j}
	other.joints[that] = Connection{Helix: h, Point: this, Joint: j}
	return nil
}

// Separation is the distance between point p and the point it is connected
// to, or zero when p is free.
func (h *Helix) Separation(p AttachmentPoint) float64 {
	c := h.joints[p]
	if !c.Connected() {
		return 0
	}
	return c.Joint.Distance()
}

// Transform is the current world transform.
func (h *Helix) Transform() physics.Transform {
	return h.body.Pose()
}

// SetTransform moves the helix, stopping it.
func (h *Helix) SetTransform(t physics.Transform) {
	h.body.SetPose(t)
}

// BaseCount is the current number of bases.
func (h *Helix) BaseCount() int {
	return h.bases
}

// InitialBaseCount is the number of bases the helix was created with.
func (h *Helix) InitialBaseCount() int {
	return h.initialBases
}

// InitialTransform is the transform the helix was created at.
func (h *Helix) InitialTransform() physics.Transform {
	return h.initialTransform
}

// Joint returns the connection at p.
func (h *Helix) Joint(p AttachmentPoint) Connection {
	return h.joints[p]
}

// Sleeping reports whether the helix body is at rest.
func (h *Helix) Sleeping() bool {
	return h.body.Sleeping()
}
