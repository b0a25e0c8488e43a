package mesh

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

type plyElement struct {
	name  string
	count int
}

// ReadPLY parses an ASCII PLY file. The first three properties of each vertex
// are read as x, y and z. Face rows start with their corner count. Other
// elements are skipped.
func ReadPLY(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "ply" {
		return nil, errors.Wrap(ErrBadMesh, "missing ply magic")
	}

	var elements []plyElement
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "end_header" {
			break
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, errors.Wrap(ErrUnsupportedFormat, "only ascii ply is read")
			}
		case "element":
			if len(fields) < 3 {
				return nil, errors.Wrap(ErrBadMesh, "element header")
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(ErrBadMesh, "element %s: %v", fields[1], err)
			}
			elements = append(elements, plyElement{name: fields[1], count: n})
		}
	}

	m := &Mesh{}
	for _, el := range elements {
		for i := 0; i < el.count; i++ {
			if !sc.Scan() {
				return nil, errors.Wrapf(ErrBadMesh, "expected %d %s rows, got %d", el.count, el.name, i)
			}
			fields := strings.Fields(sc.Text())
			switch el.name {
			case "vertex":
				v, err := plyVertex(fields)
				if err != nil {
					return nil, errors.Wrapf(ErrBadMesh, "vertex %d: %v", i, err)
				}
				m.Vertices = append(m.Vertices, v)
			case "face":
				f, err := plyFace(fields)
				if err != nil {
					return nil, errors.Wrapf(ErrBadMesh, "face %d: %v", i, err)
				}
				m.Faces = append(m.Faces, f)
			case "edge":
				f, err := plyFace(append([]string{"2"}, fields...))
				if err != nil || len(f) != 2 {
					return nil, errors.Wrapf(ErrBadMesh, "edge %d", i)
				}
				m.Edges = append(m.Edges, [2]int{f[0], f[1]})
			}
		}
	}
	return m, sc.Err()
}

func plyVertex(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, errors.New("fewer than three coordinates")
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return r3.Vec{}, err
		}
		xyz[i] = f
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func plyFace(fields []string) ([]int, error) {
	if len(fields) == 0 {
		return nil, errors.New("empty row")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	if len(fields) < n+1 {
		return nil, errors.Errorf("expected %d indices", n)
	}
	face := make([]int, n)
	for i := range face {
		if face[i], err = strconv.Atoi(fields[i+1]); err != nil {
			return nil, err
		}
	}
	return face, nil
}
