package route

import (
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/internal/atrail"
	"github.com/jjtimmons/vhelix/internal/embed"
	"github.com/jjtimmons/vhelix/internal/euler"
	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/mesh"
)

type aTrailRouter struct{}

func (aTrailRouter) Variant() Variant { return ATrail }

func (aTrailRouter) BuildGraph(m *mesh.Mesh) *graph.Multigraph {
	return graph.Build(len(m.Vertices), m.Faces, m.Edges)
}

func (aTrailRouter) CompleteEulerian(g *graph.Multigraph) (*graph.Multigraph, *euler.Report, error) {
	mg := g.Clone()
	report, err := euler.Complete(mg)
	if err != nil {
		return nil, nil, err
	}
	return mg, report, nil
}

func (aTrailRouter) FindTrail(g *graph.Multigraph, vcode [][]int) (*Result, error) {
	ecode, err := embed.EdgeCode(vcode, g)
	if err != nil {
		return nil, err
	}
	trail, err := atrail.Search(g, ecode)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Found:       trail.Found,
		Reason:      trail.Reason,
		Edges:       trail.Edges,
		BranchNodes: trail.BranchNodes,
		Parities:    trail.Parities,
		EdgeCode:    ecode,
	}
	if !trail.Found {
		return res, nil
	}
	if len(trail.Edges) > 0 && !atrail.Verify(ecode, trail.Edges) {
		return nil, errors.Wrapf(atrail.ErrVerifyFailed, "edge trail %v", trail.Edges)
	}
	if len(trail.Nodes) > 0 {
		res.Trails = [][]int{trail.Nodes}
	}
	return res, nil
}
