package test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/spf13/viper"

	"github.com/jjtimmons/vhelix/config"
	"github.com/jjtimmons/vhelix/internal/design"
	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/relax"
	"github.com/jjtimmons/vhelix/internal/route"
	"github.com/jjtimmons/vhelix/internal/rpoly"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("settings", "settings.json")
	c, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func Test_Route(t *testing.T) {
	type testFlags struct {
		in      string
		variant route.Variant
		edges   int // directed edges walked, zero for an A-trail
	}

	tests := []testFlags{
		{filepath.Join("input", "cube.obj"), route.ATrail, 0},
		{filepath.Join("input", "cube.obj"), route.ScaffoldFree, 24},
		{filepath.Join("input", "tetrahedron.ply"), route.ScaffoldFree, 12},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.in)+"/"+string(tt.variant), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.rpoly")
			fs := design.NewFlags(tt.in, out, "", tt.variant, true)

			res, _, err := design.Route(fs, loadConfig(t))
			if err != nil {
				t.Fatal(err)
			}
			if !res.Found {
				t.Fatalf("no route: %s", res.Reason)
			}

			f, err := os.Open(filepath.Join(filepath.Dir(out), "out.ntrail"))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			trails, err := graph.ReadTrails(f)
			if err != nil {
				t.Fatal(err)
			}

			walked := 0
			for _, trail := range trails {
				if trail[0] != trail[len(trail)-1] {
					t.Errorf("trail %v is not closed", trail)
				}
				walked += len(trail) - 1
			}
			if tt.edges == 0 {
				tt.edges = res.Multigraph.Size()
			}
			if walked != tt.edges {
				t.Errorf("trails walk %d edges, want %d", walked, tt.edges)
			}
		})
	}
}

func Test_Design(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	out := filepath.Join(t.TempDir(), "cube.rpoly")
	fs := design.NewFlags(filepath.Join("input", "cube.obj"), out, "", route.ATrail, false)

	res, err := design.Design(context.Background(), fs, loadConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != relax.StatusSuccess {
		t.Fatalf("status %v: %s", res.Status, res.Log)
	}
	if res.Final.Total > res.Initial.Total {
		t.Errorf("relaxation grew the separation from %v to %v", res.Initial.Total, res.Final.Total)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s, err := rpoly.ParseString(string(b))
	if err != nil {
		t.Fatal(err)
	}
	// one helix per edge of the Eulerian completion
	if len(s.Helices) != 16 {
		t.Errorf("rpoly has %d helices, want 16", len(s.Helices))
	}
	if !s.Autostaple || s.Start == nil || s.Start.Helix != "helix_1" {
		t.Errorf("rpoly footer = %v %+v", s.Autostaple, s.Start)
	}
}

func Test_RelaxScaffoldFree(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join("input", "tetrahedron.ply")
	c := loadConfig(t)

	routed := design.NewFlags(in, filepath.Join(dir, "tetrahedron.rpoly"), "", route.ScaffoldFree, true)
	routing, m, err := design.Route(routed, c)
	if err != nil {
		t.Fatal(err)
	}

	res, err := design.Relax(context.Background(), routed, c, m, routing.Trails)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != relax.StatusSuccess {
		t.Fatalf("status %v: %s", res.Status, res.Log)
	}

	b, err := os.ReadFile(filepath.Join(dir, "tetrahedron.rpoly"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "# Relaxation of tetrahedron file. 6 helices.\n") {
		t.Errorf("rpoly header = %q", strings.SplitN(string(b), "\n", 2)[0])
	}
}
