package mesh

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

const cubePLY = `ply
format ascii 1.0
comment unit cube
element vertex 8
property float x
property float y
property float z
element face 6
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
0 0 1
1 0 1
1 1 1
0 1 1
4 0 1 2 3
4 4 7 6 5
4 0 4 5 1
4 1 5 6 2
4 2 6 7 3
4 3 7 4 0
`

const frameOBJ = `# a triangle and a dangling polyline
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
v 1 1 1
f 1/1/1 2/2/1 3/3/1
l 3 4 5
l -1 1
`

func TestReadPLY(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(cubePLY))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 8 || len(m.Faces) != 6 {
		t.Fatalf("ReadPLY() = %d vertices %d faces, want 8 and 6", len(m.Vertices), len(m.Faces))
	}
	if m.Vertices[6] != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("vertex 6 = %v", m.Vertices[6])
	}
	if !reflect.DeepEqual(m.Faces[1], []int{4, 7, 6, 5}) {
		t.Errorf("face 1 = %v", m.Faces[1])
	}
	if err := m.Validate(); err != nil {
		t.Error(err)
	}
}

func TestReadPLY_errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not a ply", "obj\n", ErrBadMesh},
		{"binary", "ply\nformat binary_little_endian 1.0\nend_header\n", ErrUnsupportedFormat},
		{"truncated", "ply\nformat ascii 1.0\nelement vertex 2\nend_header\n0 0 0\n", ErrBadMesh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.in))
			if errors.Cause(err) != tt.want {
				t.Errorf("ReadPLY() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadOBJ(t *testing.T) {
	m, err := ReadOBJ(strings.NewReader(frameOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 5 {
		t.Errorf("vertices = %d, want 5", len(m.Vertices))
	}
	if !reflect.DeepEqual(m.Faces, [][]int{{0, 1, 2}}) {
		t.Errorf("faces = %v", m.Faces)
	}
	wantEdges := [][2]int{{2, 3}, {3, 4}, {4, 0}}
	if !reflect.DeepEqual(m.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", m.Edges, wantEdges)
	}
	on := m.HasNonFaceEdge()
	if !reflect.DeepEqual(on, []bool{true, false, true, true, true}) {
		t.Errorf("HasNonFaceEdge() = %v", on)
	}
}

func TestMesh_Validate(t *testing.T) {
	tests := []struct {
		name string
		m    Mesh
		ok   bool
	}{
		{"ok", Mesh{Vertices: make([]r3.Vec, 3), Faces: [][]int{{0, 1, 2}}}, true},
		{"short face", Mesh{Vertices: make([]r3.Vec, 3), Faces: [][]int{{0, 1}}}, false},
		{"out of range", Mesh{Vertices: make([]r3.Vec, 3), Faces: [][]int{{0, 1, 3}}}, false},
		{"loop edge", Mesh{Vertices: make([]r3.Vec, 3), Edges: [][2]int{{1, 1}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.ply")
	if err := os.WriteFile(path, []byte(cubePLY), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "cube" {
		t.Errorf("Name = %q, want cube", m.Name)
	}

	if _, err := Read(filepath.Join(dir, "cube.stl")); err == nil {
		t.Error("expected an error for a missing file")
	}
	stl := filepath.Join(dir, "shape.stl")
	os.WriteFile(stl, []byte("solid"), 0644)
	if _, err := Read(stl); errors.Cause(err) != ErrUnsupportedFormat {
		t.Errorf("Read(stl) error = %v", err)
	}
}
