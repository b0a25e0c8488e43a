package mesh

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ parses `v`, `f` and `l` records of a Wavefront OBJ file. Face
// corners may carry texture and normal references (`7/3/1`); only the vertex
// is kept. Negative indices count back from the last vertex read. An `l`
// polyline becomes one edge per consecutive pair.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrBadMesh, "vertex on line %d", lineNo)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(ErrBadMesh, "vertex on line %d: %v", lineNo, err)
				}
				xyz[i] = f
			}
			m.Vertices = append(m.Vertices, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		case "f":
			face := make([]int, 0, len(fields)-1)
			for _, corner := range fields[1:] {
				v, err := objIndex(strings.SplitN(corner, "/", 2)[0], len(m.Vertices))
				if err != nil {
					return nil, errors.Wrapf(ErrBadMesh, "face on line %d: %v", lineNo, err)
				}
				face = append(face, v)
			}
			m.Faces = append(m.Faces, face)
		case "l":
			var prev = -1
			for _, tok := range fields[1:] {
				v, err := objIndex(strings.SplitN(tok, "/", 2)[0], len(m.Vertices))
				if err != nil {
					return nil, errors.Wrapf(ErrBadMesh, "edge on line %d: %v", lineNo, err)
				}
				if prev >= 0 {
					m.Edges = append(m.Edges, [2]int{prev, v})
				}
				prev = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// objIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func objIndex(tok string, count int) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return count + i, nil
	}
	return i - 1, nil
}
