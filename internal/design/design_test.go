package design

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"

	"github.com/jjtimmons/vhelix/config"
	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/mesh"
	"github.com/jjtimmons/vhelix/internal/relax"
	"github.com/jjtimmons/vhelix/internal/route"
	"github.com/jjtimmons/vhelix/internal/rpoly"
)

const squareOBJ = `# square
v 0 0 0
v 10 0 0
v 10 10 0
v 0 10 0
f 1 2 3 4
`

const cubeOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 4 8 5 1
`

func testConfig() *config.Config {
	return &config.Config{
		PhysX: config.PhysX{
			Density:              10,
			SpringStiffness:      100,
			FixedSpringStiffness: 1000,
			SpringDamping:        100,
			StaticFriction:       0.5,
			DynamicFriction:      0.5,
			Restitution:          1,
			SleepThreshold:       0.001,
			AttachFixed:          true,
			Iterations:           2,
			Timeout:              60,
		},
		Scaling: 1,
	}
}

func writeMesh(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_inputParser_guessOutput(t *testing.T) {
	type args struct {
		in string
	}
	tests := []struct {
		name    string
		args    args
		wantOut string
	}{
		{
			"ply",
			args{in: "/meshes/bunny.ply"},
			"/meshes/bunny.rpoly",
		},
		{
			"obj with dots",
			args{in: "tetra.v2.obj"},
			"tetra.v2.rpoly",
		},
		{
			"no input",
			args{in: ""},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &inputParser{}
			if gotOut := p.guessOutput(tt.args.in); gotOut != tt.wantOut {
				t.Errorf("inputParser.guessOutput() = %v, want %v", gotOut, tt.wantOut)
			}
		})
	}
}

func Test_inputParser_guessInput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "b.obj", "a.ply"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	p := &inputParser{}
	in, err := p.guessInput()
	if err != nil {
		t.Fatal(err)
	}
	// ply files are preferred
	if in != "a.ply" {
		t.Errorf("inputParser.guessInput() = %v, want a.ply", in)
	}

	os.Remove("a.ply")
	os.Remove("b.obj")
	if _, err := p.guessInput(); err == nil {
		t.Error("inputParser.guessInput() found a mesh in a directory without one")
	}
}

func Test_inputParser_parseVariant(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    route.Variant
		wantErr bool
	}{
		{"default", "", route.ATrail, false},
		{"atrail", "atrail", route.ATrail, false},
		{"scaffold free", " Scaffold-Free ", route.ScaffoldFree, false},
		{"unknown", "spanning-tree", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &inputParser{}
			got, err := p.parseVariant(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("inputParser.parseVariant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("inputParser.parseVariant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoute_dump(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	in := writeMesh(t, "cube.obj", cubeOBJ)
	fs := NewFlags(in, "", "", route.ATrail, true)

	res, m, err := Route(fs, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || m.Name != "cube" {
		t.Fatalf("Route() found = %v, mesh = %s", res.Found, m.Name)
	}

	base := strings.TrimSuffix(in, ".obj")
	for _, suffix := range []string{".dimacs", "_multi.dimacs", ".vcode", ".ecode", ".ntrail", ".etrail"} {
		if _, err := os.Stat(base + suffix); err != nil {
			t.Errorf("Route() did not write %s", suffix)
		}
	}

	f, err := os.Open(base + "_multi.dimacs")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	mg, err := graph.ReadDIMACS(f)
	if err != nil {
		t.Fatal(err)
	}
	if mg.Size() != res.Multigraph.Size() || !mg.IsEven() {
		t.Errorf("_multi.dimacs has %d edges, want %d even", mg.Size(), res.Multigraph.Size())
	}

	trails, err := readTrails(base + ".ntrail")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(trails, res.Trails) {
		t.Errorf(".ntrail = %v, want %v", trails, res.Trails)
	}
}

func TestRoute_cached(t *testing.T) {
	in := writeMesh(t, "cube.obj", cubeOBJ)
	c := testConfig()
	c.Cache = filepath.Join(t.TempDir(), "routes")

	for _, variant := range route.Variants {
		fs := NewFlags(in, "", "", variant, false)
		first, _, err := Route(fs, c)
		if err != nil {
			t.Fatal(err)
		}
		second, _, err := Route(fs, c)
		if err != nil {
			t.Fatal(err)
		}

		if strings.Contains(first.Log, "using cached route") {
			t.Errorf("%s: first route came from the cache", variant)
		}
		if !strings.Contains(second.Log, "using cached route") {
			t.Errorf("%s: second route was not cached", variant)
		}
		if !reflect.DeepEqual(first.Trails, second.Trails) || !reflect.DeepEqual(first.Edges, second.Edges) {
			t.Errorf("%s: cached route differs", variant)
		}
		if !reflect.DeepEqual(first.EdgeCode, second.EdgeCode) || first.Multigraph.Size() != second.Multigraph.Size() {
			t.Errorf("%s: rebuilt codes differ", variant)
		}
	}
}

func TestRoute_errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		variant route.Variant
	}{
		{"missing mesh", filepath.Join(t.TempDir(), "missing.ply"), route.ATrail},
		{"unsupported format", writeMesh(t, "cube.stl", cubeOBJ), route.ATrail},
		{"unknown variant", writeMesh(t, "cube.obj", cubeOBJ), route.Variant("zigzag")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Route(NewFlags(tt.in, "", "", tt.variant, false), testConfig()); err == nil {
				t.Error("Route() error = nil")
			}
		})
	}
}

func TestDesign(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	in := writeMesh(t, "square.obj", squareOBJ)
	fs := NewFlags(in, "", "", route.ATrail, false)

	res, err := Design(context.Background(), fs, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != relax.StatusSuccess {
		t.Fatalf("Design() status = %v: %s", res.Status, res.Log)
	}

	out, err := os.ReadFile(strings.TrimSuffix(in, ".obj") + ".rpoly")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "# Relaxation of square file. 4 helices.\n") {
		t.Errorf("rpoly header = %q", strings.SplitN(string(out), "\n", 2)[0])
	}
	s, err := rpoly.ParseString(string(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Helices) != 4 || len(s.Connections) == 0 {
		t.Errorf("rpoly has %d helices, %d connections", len(s.Helices), len(s.Connections))
	}
}

func TestRelax_tooShort(t *testing.T) {
	in := writeMesh(t, "square.obj", squareOBJ)
	fs := NewFlags(in, "", "", route.ATrail, false)
	c := testConfig()
	c.Scaling = 0.01

	res, err := Design(context.Background(), fs, c)
	if errors.Cause(err) != ErrRelaxFailed {
		t.Fatalf("Design() error = %v, want %v", err, ErrRelaxFailed)
	}
	if res.Status != relax.StatusFailure || !strings.Contains(res.Log, "POPUP_ERR") {
		t.Errorf("Design() status = %v, log = %q", res.Status, res.Log)
	}
	if _, err := os.Stat(fs.out); !os.IsNotExist(err) {
		t.Errorf("Design() wrote %s after a failure", fs.out)
	}
}

func Test_relaxOptions(t *testing.T) {
	c := testConfig()
	c.Scaling = 2.5
	c.PhysX.DiscretizeLengths = true

	tests := []struct {
		name         string
		trails       [][]int
		variant      route.Variant
		scaffoldFree bool
	}{
		{"atrail", [][]int{{0, 1, 2, 0}}, route.ATrail, false},
		{"scaffold free", [][]int{{0, 1, 0}}, route.ScaffoldFree, true},
		{"several trails", [][]int{{0, 1, 0}, {1, 2, 1}}, route.ATrail, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := relaxOptions(&mesh.Mesh{Name: "m"}, tt.trails, tt.variant, c)
			if got.ScaffoldFree != tt.scaffoldFree {
				t.Errorf("relaxOptions().ScaffoldFree = %v, want %v", got.ScaffoldFree, tt.scaffoldFree)
			}
			if got.Scene.InitialScaling != 2.5 || !got.Scene.DiscretizeLengths {
				t.Errorf("relaxOptions().Scene = %+v", got.Scene)
			}
			if got.Helix.FixedSpringStiffness != 1000 || got.Physics.SleepThreshold != 0.001 || got.Iterations != 2 {
				t.Errorf("relaxOptions() = %+v", got)
			}
			if got.MinBases != relax.DefaultMinBases || got.Name != "m" {
				t.Errorf("relaxOptions() name = %s, min bases = %d", got.Name, got.MinBases)
			}
		})
	}
}
