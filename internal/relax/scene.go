package relax

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jjtimmons/vhelix/internal/physics"
)

var (
	// ErrShortTrail means the routing has fewer than two edges.
	ErrShortTrail = errors.New("trail is too short to build helices from")

	// ErrBadTrailVertex means a trail names a vertex with no position.
	ErrBadTrailVertex = errors.New("trail vertex out of range")

	// ErrInconsistentStaple means a trail's consecutive edges are not
	// neighbours around the vertex they share.
	ErrInconsistentStaple = errors.New("inconsistent staple crossover")
)

// SceneSettings control how the input geometry is turned into helices.
type SceneSettings struct {
	// InitialScaling multiplies every vertex position
	InitialScaling float64

	// DiscretizeLengths rounds helix lengths to whole half turns
	DiscretizeLengths bool
}

type vertexEdge struct {
	index int
	angle float64
}

type vertex struct {
	position r3.Vec
	normal   r3.Vec
	edges    []vertexEdge
}

// pathEdge is a directed edge of the routing.
type pathEdge [2]int

func (e pathEdge) other(v int) int {
	if e[0] == v {
		return e[1]
	}
	return e[0]
}

// Scene is the set of helices built from a mesh and its routing, living in
// one physics context.
type Scene struct {
	settings      SceneSettings
	helixSettings HelixSettings
	phys          *physics.Context

	vertices []vertex
	path     []int
	trails   [][]int
	edges    []pathEdge
	helices  []*Helix
}

// NewScene creates an empty scene in phys.
func NewScene(phys *physics.Context, settings SceneSettings, helixSettings HelixSettings) *Scene {
	return &Scene{settings: settings, helixSettings: helixSettings, phys: phys}
}

// SetData loads the vertex positions and the closed scaffold trail, the
// last element of which repeats the first.
func (s *Scene) SetData(positions []r3.Vec, trail []int) error {
	if err := s.setVertices(positions); err != nil {
		return err
	}
	if len(trail) < 3 {
		return errors.Wrapf(ErrShortTrail, "%d vertices", len(trail))
	}
	if err := s.checkTrail(trail); err != nil {
		return err
	}
	s.path = append([]int(nil), trail[:len(trail)-1]...)
	return nil
}

// SetScaffoldFreeData loads the vertex positions and a set of closed trails
// that together visit every edge once in each direction.
func (s *Scene) SetScaffoldFreeData(positions []r3.Vec, trails [][]int) error {
	if err := s.setVertices(positions); err != nil {
		return err
	}
	if len(trails) == 0 {
		return errors.Wrap(ErrShortTrail, "no trails")
	}
	s.trails = s.trails[:0]
	for _, t := range trails {
		if len(t) < 3 {
			return errors.Wrapf(ErrShortTrail, "%d vertices", len(t))
		}
		if err := s.checkTrail(t); err != nil {
			return err
		}
		s.trails = append(s.trails, append([]int(nil), t[:len(t)-1]...))
	}
	return nil
}

func (s *Scene) setVertices(positions []r3.Vec) error {
	if len(positions) == 0 {
		return errors.New("no vertex positions")
	}
	s.vertices = make([]vertex, len(positions))
	for i, p := range positions {
		s.vertices[i].position = r3.Scale(s.settings.InitialScaling, p)
	}
	return nil
}

func (s *Scene) checkTrail(trail []int) error {
	for _, v := range trail {
		if v < 0 || v >= len(s.vertices) {
			return errors.Wrapf(ErrBadTrailVertex, "vertex %d of %d", v, len(s.vertices))
		}
	}
	return nil
}

func (s *Scene) position(v int) r3.Vec {
	return s.vertices[v].position
}

// Helices of the scene in edge order.
func (s *Scene) Helices() []*Helix {
	return s.helices
}

// SetupHelices builds a helix for every edge of the scaffold path, joins
// consecutive helices along the scaffold and staples each helix to its
// neighbour around the vertex it ends in.
func (s *Scene) SetupHelices() error {
	m := len(s.path)
	if m < 2 {
		return errors.Wrap(ErrShortTrail, "no scaffold path")
	}

	s.edges = make([]pathEdge, m)
	duplicates := make(map[pathEdge]int)
	for i := range s.path {
		s.edges[i] = pathEdge{s.path[i], s.path[(i+1)%m]}
		duplicates[s.edges[i]]++
	}
	s.computeFrames(s.edges)

	s.helices = make([]*Helix, 0, m)
	for i, e := range s.edges {
		pa, pb := s.position(e[0]), s.position(e[1])
		origo := r3.Scale(0.5, r3.Add(pa, pb))
		dir := r3.Sub(pb, pa)
		connecting := [2]int{s.path[(i+2)%m], s.path[(i-1+m)%m]}

		cross := false
		var tangent r3.Vec
		dup := duplicates[e]
		if dup > 1 {
			cross = connecting[0] == e[0] || connecting[1] == e[1]
			tangent = s.duplicateTangent(i, origo)
		} else {
			cross = r3.Dot(r3.Sub(s.position(connecting[0]), pb), r3.Sub(s.position(connecting[1]), pa)) < 0
		}

		length := s.helixLength(e, dir, cross)
		t := physics.Transform{
			P: r3.Add(origo, r3.Scale(float64(dup-1)*radiusPlusSphereRadius, tangent)),
			Q: physics.RotationFromTo(zAxis, dir),
		}
		h, err := NewHelix(s.phys, &s.helixSettings, DistanceToBaseCount(length), t)
		if err != nil {
			return errors.Wrapf(err, "helix of edge %d -> %d", e[0], e[1])
		}
		s.helices = append(s.helices, h)
	}

	for i := range s.helices {
		prev := s.helices[(i-1+m)%m]
		if err := prev.Attach(s.phys, s.helices[i], ForwardThreePrime, ForwardFivePrime); err != nil {
			return err
		}
	}

	for i, e := range s.edges {
		v := &s.vertices[e[1]]
		n := len(v.edges)
		at := indexOfEdge(v.edges, i)
		next := indexOfEdge(v.edges, (i+1)%m)
		delta := next - at
		if abs(delta) != 1 && abs(delta) != n-1 {
			return errors.Wrapf(ErrInconsistentStaple, "edges %d and %d at vertex %d", i, (i+1)%m, e[1])
		}
		step := -1
		if abs(delta) > 1 {
			step = 1
		}
		staple := ((at+sgnNoZero(float64(delta))*step)%n + n) % n
		if err := s.helices[i].Attach(s.phys, s.helices[v.edges[staple].index], BackwardFivePrime, BackwardThreePrime); err != nil {
			return err
		}
	}

	tracer().Debugf("built %d helices from %d vertices", len(s.helices), len(s.vertices))
	return nil
}

// SetupScaffoldFreeHelices builds one helix per undirected edge, the first
// trail to use an edge decides its direction, and joins consecutive edges of
// every trail at the strand ends matching the direction they are walked in.
func (s *Scene) SetupScaffoldFreeHelices() error {
	s.edges = s.edges[:0]
	for _, t := range s.trails {
		for i := range t {
			s.edges = append(s.edges, pathEdge{t[i], t[(i+1)%len(t)]})
		}
	}
	s.computeFrames(s.edges)

	type route struct {
		helix   int
		forward bool
	}
	routes := make(map[pathEdge]route)
	s.helices = s.helices[:0]

	for _, t := range s.trails {
		m := len(t)
		for i := range t {
			e := pathEdge{t[i], t[(i+1)%m]}
			if _, ok := routes[e]; ok {
				continue
			}
			if r, ok := routes[pathEdge{e[1], e[0]}]; ok && r.forward {
				routes[e] = route{helix: r.helix}
				continue
			}

			pa, pb := s.position(e[0]), s.position(e[1])
			dir := r3.Sub(pb, pa)
			connecting := [2]int{t[(i+2)%m], t[(i-1+m)%m]}
			cross := r3.Dot(r3.Sub(s.position(connecting[0]), pb), r3.Sub(s.position(connecting[1]), pa)) < 0

			length := s.helixLength(e, dir, cross)
			tr := physics.Transform{
				P: r3.Scale(0.5, r3.Add(pa, pb)),
				Q: physics.RotationFromTo(zAxis, dir),
			}
			h, err := NewHelix(s.phys, &s.helixSettings, DistanceToBaseCount(length), tr)
			if err != nil {
				return errors.Wrapf(err, "helix of edge %d -> %d", e[0], e[1])
			}
			routes[e] = route{helix: len(s.helices), forward: true}
			s.helices = append(s.helices, h)
		}
	}

	for _, t := range s.trails {
		m := len(t)
		for i := range t {
			r1 := routes[pathEdge{t[i], t[(i+1)%m]}]
			r2 := routes[pathEdge{t[(i+1)%m], t[(i+2)%m]}]
			p1, p2 := BackwardThreePrime, BackwardFivePrime
			if r1.forward {
				p1 = ForwardThreePrime
			}
			if r2.forward {
				p2 = ForwardFivePrime
			}
			if err := s.helices[r1.helix].Attach(s.phys, s.helices[r2.helix], p1, p2); err != nil {
				return err
			}
		}
	}

	tracer().Debugf("built %d scaffold free helices from %d trails", len(s.helices), len(s.trails))
	return nil
}

// helixLength is the length of the helix for edge e: the edge minus room for
// the helices meeting at both ends, optionally rounded to half turns.
func (s *Scene) helixLength(e pathEdge, dir r3.Vec, cross bool) float64 {
	length := r3.Norm(dir) -
		apothem(2*Radius, s.uniqueNeighbours(e[0])) -
		apothem(2*Radius, s.uniqueNeighbours(e[1]))
	if !s.settings.DiscretizeLengths {
		return length
	}

	halves := length / HalfTurnLength
	lo, hi := math.Floor(halves), math.Ceil(halves)
	if int(lo)%2 != 0 {
		if cross {
			return HalfTurnLength * lo
		}
		return HalfTurnLength * hi
	}
	if cross {
		return HalfTurnLength * hi
	}
	return HalfTurnLength * lo
}

func (s *Scene) uniqueNeighbours(v int) int {
	seen := make(map[int]bool)
	for _, ve := range s.vertices[v].edges {
		seen[s.edges[ve.index].other(v)] = true
	}
	return len(seen)
}

// duplicateTangent points from the edge's midpoint towards the side the
// parallel copy is pushed to.
func (s *Scene) duplicateTangent(i int, origo r3.Vec) r3.Vec {
	e := s.edges[i]
	v := &s.vertices[e[0]]
	n := len(v.edges)
	at := indexOfEdge(v.edges, i)
	if at < 0 || n < 2 {
		return r3.Vec{}
	}
	get := func(k int) vertexEdge { return v.edges[((at+k)%n+n)%n] }
	other := func(ve vertexEdge) int { return s.edges[ve.index].other(e[0]) }
	midpoint := func(ve vertexEdge) r3.Vec {
		pe := s.edges[ve.index]
		return r3.Scale(0.5, r3.Add(s.position(pe[0]), s.position(pe[1])))
	}

	alpha := get(0).angle
	var betha, gamma float64
	var tangent r3.Vec
	switch {
	case other(get(-1)) != other(get(0)):
		betha, gamma = get(-1).angle, get(2).angle
		tangent = r3.Sub(midpoint(get(-1)), origo)
	case other(get(1)) != other(get(0)):
		betha, gamma = get(1).angle, get(-2).angle
		tangent = r3.Sub(midpoint(get(1)), origo)
	}

	var diff float64
	switch {
	case alpha > gamma && gamma > betha:
		diff = (math.Pi - alpha) + (betha + math.Pi)
	case betha > gamma && gamma > alpha:
		diff = (math.Pi - betha) + (alpha + math.Pi)
	default:
		diff = math.Abs(betha - alpha)
	}
	if diff >= math.Pi {
		tangent = r3.Scale(-1, tangent)
	}
	return physics.Normalize(tangent)
}

// computeFrames collects the incident edges of every vertex, its normal and
// the signed angle of each incident edge around it.
func (s *Scene) computeFrames(edges []pathEdge) {
	for i := range s.vertices {
		s.vertices[i].edges = s.vertices[i].edges[:0]
	}
	for i, e := range edges {
		s.vertices[e[0]].edges = append(s.vertices[e[0]].edges, vertexEdge{index: i})
		s.vertices[e[1]].edges = append(s.vertices[e[1]].edges, vertexEdge{index: i})
	}

	for vi := range s.vertices {
		v := &s.vertices[vi]
		n := len(v.edges)
		v.normal = r3.Vec{}
		if n == 0 {
			continue
		}
		away := func(ve vertexEdge) r3.Vec {
			return r3.Sub(v.position, s.position(edges[ve.index].other(vi)))
		}
		for k := range v.edges {
			next := v.edges[(k+1)%n]
			v.normal = r3.Add(v.normal, r3.Cross(physics.Normalize(away(next)), physics.Normalize(away(v.edges[k]))))
		}
		v.normal = physics.Normalize(v.normal)

		tangent := physics.Normalize(r3.Scale(-1, away(v.edges[0])))
		tangent = r3.Sub(tangent, project(tangent, v.normal))
		for k := range v.edges {
			delta := r3.Scale(-1, away(v.edges[k]))
			v.edges[k].angle = signedAngle(tangent, r3.Sub(delta, project(delta, v.normal)), v.normal)
		}
	}
}

// Separation is a summary of the distances between connected attachment
// points.
type Separation struct {
	Min, Max, Average, Total float64
}

// Separation measures every connected attachment point. Each joint is
// counted from both of its ends, so the total is halved.
func (s *Scene) Separation() Separation {
	sep := Separation{Min: math.Inf(1)}
	n := 0
	for _, h := range s.helices {
		for p := range h.joints {
			if !h.joints[p].Connected() {
				continue
			}
			d := h.Separation(AttachmentPoint(p))
			sep.Min = math.Min(sep.Min, d)
			sep.Max = math.Max(sep.Max, d)
			sep.Total += d
			n++
		}
	}
	if n == 0 {
		return Separation{}
	}
	sep.Average = sep.Total / float64(4*len(s.helices))
	sep.Total /= 2
	return sep
}

// TotalSeparation is the sum of all joint lengths.
func (s *Scene) TotalSeparation() float64 {
	return s.Separation().Total
}

// Sleeping reports whether every helix is at rest.
func (s *Scene) Sleeping() bool {
	for _, h := range s.helices {
		if !h.Sleeping() {
			return false
		}
	}
	return true
}

// ResetTransforms moves every helix back to where it was created.
func (s *Scene) ResetTransforms() {
	for _, h := range s.helices {
		h.SetTransform(h.InitialTransform())
	}
}

func project(v, onto r3.Vec) r3.Vec {
	n2 := r3.Norm2(onto)
	if n2 == 0 {
		return r3.Vec{}
	}
	return r3.Scale(r3.Dot(v, onto)/n2, onto)
}

// signedAngle between from and to around normal, in (-pi, pi].
func signedAngle(from, to, normal r3.Vec) float64 {
	from, to = physics.Normalize(from), physics.Normalize(to)
	d := r3.Dot(from, to)
	if math.Abs(d) >= 1-1e-6 {
		return (1 - float64(sgnNoZero(d))) * math.Pi / 2
	}
	return float64(sgnNoZero(r3.Dot(r3.Cross(normal, from), to))) * math.Acos(d)
}

func sgnNoZero(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func indexOfEdge(edges []vertexEdge, index int) int {
	for i, ve := range edges {
		if ve.index == index {
			return i
		}
	}
	return -1
}
