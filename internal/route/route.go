// Package route runs the routing pipeline on a mesh: graph construction,
// Eulerian completion and trail search. The scaffolded A-trail and the
// scaffold free variants share one Router interface.
package route

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/atrail"
	"github.com/jjtimmons/vhelix/internal/embed"
	"github.com/jjtimmons/vhelix/internal/euler"
	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/mesh"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.route")
}

// ErrUnknownVariant is returned by New for an unrecognized variant name.
var ErrUnknownVariant = errors.New("unknown routing variant")

// Variant names a routing strategy.
type Variant string

const (
	// ATrail is a single scaffold trail through an Eulerian completion of
	// the undirected mesh graph.
	ATrail Variant = "atrail"

	// ScaffoldFree walks every edge once in each direction, one trail per
	// face of the embedding.
	ScaffoldFree Variant = "scaffold-free"
)

// Variants lists every supported variant.
var Variants = []Variant{ATrail, ScaffoldFree}

// Router is one routing strategy.
type Router interface {
	// Variant tags the strategy.
	Variant() Variant

	// BuildGraph builds the routing graph of m.
	BuildGraph(m *mesh.Mesh) *graph.Multigraph

	// CompleteEulerian returns the graph the trail is searched in and the
	// completion report, nil when the variant needs no completion. g is not
	// modified.
	CompleteEulerian(g *graph.Multigraph) (*graph.Multigraph, *euler.Report, error)

	// FindTrail searches g under the vertex code of the original mesh.
	FindTrail(g *graph.Multigraph, vcode [][]int) (*Result, error)
}

// New returns the router of variant v.
func New(v Variant) (Router, error) {
	switch v {
	case ATrail:
		return aTrailRouter{}, nil
	case ScaffoldFree:
		return scaffoldFreeRouter{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownVariant, "%q", v)
}

// Result of a routing run. A negative result has Found false and a Reason.
type Result struct {
	Variant Variant
	Found   bool
	Reason  string

	// Trails are closed node trails: the A-trail, or every scaffold free
	// strand
	Trails [][]int

	// Edges is the edge trail of the A-trail
	Edges []int

	BranchNodes []int
	Parities    []atrail.Parity

	Graph      *graph.Multigraph
	Multigraph *graph.Multigraph
	Completion *euler.Report
	VertexCode [][]int
	EdgeCode   [][]int

	// Log mirrors the progress messages of the run
	Log string
}

// Route runs r on m.
func Route(r Router, m *mesh.Mesh) (*Result, error) {
	var log strings.Builder
	logf := func(format string, args ...interface{}) {
		fmt.Fprintf(&log, format+"\n", args...)
	}

	logf("creating Graph...")
	g := r.BuildGraph(m)
	logf("Successfully created the Graph: %d vertices, %d edges", g.Order(), g.Size())

	vcode := embed.VertexCode(m)

	mg, report, err := r.CompleteEulerian(g)
	if err != nil {
		return nil, errors.Wrap(err, "Eulerian completion")
	}
	if report != nil {
		if len(report.Odd) == 0 {
			logf("no odd vertices")
		} else {
			logf("%d odd vertices, added %d edges, removed %d", len(report.Odd), report.Added, report.Removed)
		}
	}

	res, err := r.FindTrail(mg, vcode)
	if err != nil {
		return nil, errors.Wrapf(err, "%s trail search", r.Variant())
	}
	res.Variant = r.Variant()
	res.Graph = g
	res.Multigraph = mg
	res.Completion = report
	res.VertexCode = vcode

	switch {
	case !res.Found:
		logf("no trail found: %s", res.Reason)
	case len(res.Trails) == 0:
		logf("WARNING! The graph consists of isolated vertices, the trail is empty")
	default:
		logf("found %d trail(s)", len(res.Trails))
	}
	res.Log = log.String()
	tracer().Debugf("%s routing of %s: found %v", r.Variant(), m.Name, res.Found)
	return res, nil
}
