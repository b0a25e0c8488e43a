package graph

import (
	"bytes"
	"reflect"
	"testing"
)

// the faces of a unit cube, vertex ids 0..7
var cubeFaces = [][]int{
	{0, 1, 2, 3},
	{4, 7, 6, 5},
	{0, 4, 5, 1},
	{1, 5, 6, 2},
	{2, 6, 7, 3},
	{3, 7, 4, 0},
}

func TestBuild(t *testing.T) {
	type args struct {
		n       int
		faces   [][]int
		nonFace [][2]int
	}
	tests := []struct {
		name      string
		args      args
		wantEdges int
		wantDeg   []int
	}{
		{
			"cube shares every edge between two faces",
			args{8, cubeFaces, nil},
			12,
			[]int{3, 3, 3, 3, 3, 3, 3, 3},
		},
		{
			"hexagon",
			args{6, [][]int{{0, 1, 2, 3, 4, 5}}, nil},
			6,
			[]int{2, 2, 2, 2, 2, 2},
		},
		{
			"non-face edges are appended without dedup",
			args{4, [][]int{{0, 1, 2}}, [][2]int{{2, 3}, {3, 0}}},
			5,
			[]int{3, 2, 3, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.args.n, tt.args.faces, tt.args.nonFace)
			if g.Size() != tt.wantEdges {
				t.Errorf("Build() edges = %d, want %d", g.Size(), tt.wantEdges)
			}
			for v, d := range tt.wantDeg {
				if g.Degree(v) != d {
					t.Errorf("Build() degree(%d) = %d, want %d", v, g.Degree(v), d)
				}
			}
			for i, e := range g.Edges() {
				if e.Index != i {
					t.Errorf("edge %d has index %d", i, e.Index)
				}
			}
		})
	}
}

func TestBuild_faceEdgeOrder(t *testing.T) {
	g := Build(5, [][]int{{0, 1, 2}, {0, 2, 3}}, [][2]int{{3, 4}})
	want := []Edge{
		{0, 1, 0}, {1, 2, 1}, {2, 0, 2},
		{2, 3, 3}, {3, 0, 4},
		{3, 4, 5},
	}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("Build() edges = %v, want %v", g.Edges(), want)
	}
}

func TestMultigraph_RemoveEdgesBetween(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(1, 0)
	g.AddEdge(2, 0)

	if removed := g.RemoveEdgesBetween(0, 1); removed != 2 {
		t.Fatalf("RemoveEdgesBetween() = %d, want 2", removed)
	}
	want := []Edge{{1, 2, 0}, {2, 0, 1}}
	if !reflect.DeepEqual(g.Edges(), want) {
		t.Errorf("edges = %v, want %v", g.Edges(), want)
	}
	if g.Degree(1) != 1 || g.Degree(0) != 1 {
		t.Errorf("degrees = %d %d, want 1 1", g.Degree(0), g.Degree(1))
	}
}

func TestMultigraph_HasEulerianTrail(t *testing.T) {
	twoTriangles := New(7)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}} {
		twoTriangles.AddEdge(e[0], e[1])
	}
	tests := []struct {
		name string
		g    *Multigraph
		want bool
	}{
		{"hexagon", Build(6, [][]int{{0, 1, 2, 3, 4, 5}}, nil), true},
		{"cube has odd vertices", Build(8, cubeFaces, nil), false},
		{"two components", twoTriangles, false},
		{"isolated vertices are ignored", Build(5, [][]int{{0, 1, 2}}, nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.HasEulerianTrail(); got != tt.want {
				t.Errorf("HasEulerianTrail() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjacency_BreadthFirst(t *testing.T) {
	a := Adjacency{
		{1, 2},
		{0, 3},
		{0, 3},
		{1, 2},
		{},
	}
	if got := a.BreadthFirst(0); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("BreadthFirst() = %v", got)
	}
	if got := a.ComponentCount(); got != 2 {
		t.Errorf("ComponentCount() = %d, want 2", got)
	}
}

func TestAdjacency_WeightedEdge(t *testing.T) {
	a := Adjacency{{1}, {0}, {}}
	tests := []struct {
		name     string
		u, v     int64
		wantEdge bool
	}{
		{"edge", 0, 1, true},
		{"reverse", 1, 0, true},
		{"no edge", 0, 2, false},
		{"out of range", 0, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := a.WeightedEdge(tt.u, tt.v)
			if (e != nil) != tt.wantEdge {
				t.Fatalf("WeightedEdge() = %v, want edge %v", e, tt.wantEdge)
			}
			if e != nil && (e.Weight() != 1 || e.From().ID() != tt.u || e.To().ID() != tt.v) {
				t.Errorf("WeightedEdge() = %v", e)
			}
		})
	}
}

func TestDIMACS(t *testing.T) {
	g := Build(8, cubeFaces, nil)
	var buf bytes.Buffer
	if err := WriteDIMACS(&buf, g); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("p edge 8 12\ne 1 2\n")) {
		t.Errorf("WriteDIMACS() = %q", buf.String())
	}

	read, err := ReadDIMACS(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(read.Edges(), g.Edges()) {
		t.Errorf("ReadDIMACS() = %v, want %v", read.Edges(), g.Edges())
	}
}

func TestReadDIMACS_errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no header", "e 1 2\n"},
		{"vertex out of range", "p edge 2 1\ne 1 3\n"},
		{"short edge line", "p edge 2 1\ne 1\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadDIMACS(bytes.NewBufferString(tt.in)); err == nil {
				t.Errorf("ReadDIMACS(%q) expected an error", tt.in)
			}
		})
	}
}

func TestCodeAndTrails(t *testing.T) {
	code := [][]int{{1, 2, 3}, {0}, {}, {4, 5}}
	var buf bytes.Buffer
	if err := WriteCode(&buf, code); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "p 4\n1 2 3\n0\n\n4 5\n" {
		t.Errorf("WriteCode() = %q", buf.String())
	}
	got, err := ReadCode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || !reflect.DeepEqual(got[0], code[0]) || !reflect.DeepEqual(got[3], code[3]) || len(got[2]) != 0 {
		t.Errorf("ReadCode() = %v, want %v", got, code)
	}

	trails := [][]int{{0, 1, 2, 0}, {3, 4, 3}}
	buf.Reset()
	if err := WriteTrails(&buf, trails); err != nil {
		t.Fatal(err)
	}
	gotTrails, err := ReadTrails(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotTrails, trails) {
		t.Errorf("ReadTrails() = %v, want %v", gotTrails, trails)
	}
}
