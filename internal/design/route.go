package design

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/jjtimmons/vhelix/config"
	"github.com/jjtimmons/vhelix/internal/cache"
	"github.com/jjtimmons/vhelix/internal/embed"
	"github.com/jjtimmons/vhelix/internal/mesh"
	"github.com/jjtimmons/vhelix/internal/route"
)

// ErrNoTrail is returned when routing finished without a trail.
var ErrNoTrail = errors.New("no trail found")

// RouteCmd is run from `vhelix route`: it routes the mesh and writes the
// graph, code and trail files next to the output path.
func RouteCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args, true)
	fs.dump = true

	res, _, err := Route(fs, c)
	if err != nil {
		stderr.Fatal(err)
	}
	if !res.Found {
		stderr.Fatalf("%v: %s", ErrNoTrail, res.Reason)
	}
}

// Route reads the mesh of fs and runs the router of fs.variant on it. Results
// are looked up in and stored to the route cache when c.Cache is set.
func Route(fs *Flags, c *config.Config) (*route.Result, *mesh.Mesh, error) {
	m, err := mesh.Read(fs.in)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading mesh")
	}
	klog.Infof("read %s: %d vertices, %d faces, %d edges", fs.in, len(m.Vertices), len(m.Faces), len(m.Edges))

	r, err := route.New(fs.variant)
	if err != nil {
		return nil, nil, err
	}

	res, err := routeCached(r, m, c.Cache)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range splitLog(res.Log) {
		klog.Infof("%s", line)
	}

	if fs.dump {
		if err := Dump(fs.base(), res); err != nil {
			return nil, nil, err
		}
	}
	return res, m, nil
}

// routeCached runs r on m unless dir holds a stored result for the same mesh
// and variant. An empty dir disables the cache.
func routeCached(r route.Router, m *mesh.Mesh, dir string) (*route.Result, error) {
	if dir == "" {
		return route.Route(r, m)
	}

	store, err := cache.Open(dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	key := cache.Key(m, string(r.Variant()))
	entry, err := store.Get(key)
	switch errors.Cause(err) {
	case nil:
		klog.V(2).Infof("route cache hit for %s", m.Name)
		res, err := fromEntry(r, m, entry)
		if err == nil {
			return res, nil
		}
		klog.Warningf("discarding cached route of %s: %v", m.Name, err)
	case cache.ErrMiss:
	default:
		klog.Warningf("route cache: %v", err)
	}

	res, err := route.Route(r, m)
	if err != nil {
		return nil, err
	}
	entry = &cache.Entry{
		Variant: string(res.Variant),
		Found:   res.Found,
		Reason:  res.Reason,
		Trails:  res.Trails,
		Edges:   res.Edges,
	}
	if err := store.Put(key, entry); err != nil {
		klog.Warningf("route cache: %v", err)
	}
	return res, nil
}

// fromEntry rebuilds the graphs and codes of a cached result. Only the
// search is skipped, so dumps of a cached route match a fresh one.
func fromEntry(r route.Router, m *mesh.Mesh, e *cache.Entry) (*route.Result, error) {
	if e.Variant != string(r.Variant()) {
		return nil, errors.Wrapf(cache.ErrCorrupt, "variant %q", e.Variant)
	}

	g := r.BuildGraph(m)
	mg, report, err := r.CompleteEulerian(g)
	if err != nil {
		return nil, err
	}
	res := &route.Result{
		Variant:    r.Variant(),
		Found:      e.Found,
		Reason:     e.Reason,
		Trails:     e.Trails,
		Edges:      e.Edges,
		Graph:      g,
		Multigraph: mg,
		Completion: report,
		VertexCode: embed.VertexCode(m),
	}
	if r.Variant() == route.ATrail {
		if res.EdgeCode, err = embed.EdgeCode(res.VertexCode, mg); err != nil {
			return nil, err
		}
	}
	for _, t := range res.Trails {
		for _, v := range t {
			if v < 0 || v >= g.Order() {
				return nil, errors.Wrapf(cache.ErrCorrupt, "vertex %d of %d", v, g.Order())
			}
		}
	}

	res.Log = "using cached route\n"
	if !res.Found {
		res.Log += "no trail found: " + res.Reason + "\n"
	}
	return res, nil
}
