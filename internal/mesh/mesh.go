// Package mesh reads polyhedral meshes (ASCII PLY and Wavefront OBJ) into
// vertex positions, faces and explicit non-face edges.
package mesh

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither PLY nor OBJ.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")

	// ErrBadMesh is returned when a mesh file cannot be parsed.
	ErrBadMesh = errors.New("malformed mesh")
)

// Mesh is a polyhedral surface. Vertex ids are 0-based indices into Vertices.
type Mesh struct {
	// Name is the file name without directory or extension
	Name string

	// Vertices are the vertex positions
	Vertices []r3.Vec

	// Faces are ordered vertex id cycles
	Faces [][]int

	// Edges are explicit edges not implied by any face
	Edges [][2]int
}

// Read opens path and parses it by extension.
func Read(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m *Mesh
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		m, err = ReadPLY(f)
	case ".obj":
		m, err = ReadOBJ(f)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, m.Validate()
}

// Validate checks that every face and edge refers to existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		if len(f) < 3 {
			return errors.Wrapf(ErrBadMesh, "face %d has %d vertices", i, len(f))
		}
		for _, v := range f {
			if v < 0 || v >= n {
				return errors.Wrapf(ErrBadMesh, "face %d refers to vertex %d", i, v)
			}
		}
	}
	for i, e := range m.Edges {
		for _, v := range e {
			if v < 0 || v >= n {
				return errors.Wrapf(ErrBadMesh, "edge %d refers to vertex %d", i, v)
			}
		}
		if e[0] == e[1] {
			return errors.Wrapf(ErrBadMesh, "edge %d is a loop", i)
		}
	}
	return nil
}

// Scaled returns a copy of the vertex positions multiplied by s.
func (m *Mesh) Scaled(s float64) []r3.Vec {
	out := make([]r3.Vec, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = r3.Scale(s, v)
	}
	return out
}

// HasNonFaceEdge reports, per vertex, whether it touches an explicit edge.
func (m *Mesh) HasNonFaceEdge() []bool {
	on := make([]bool, len(m.Vertices))
	for _, e := range m.Edges {
		on[e[0]] = true
		on[e[1]] = true
	}
	return on
}
