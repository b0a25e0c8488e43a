package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrBadHeader is returned when a code or DIMACS file lacks its `p` line.
	ErrBadHeader = errors.New("missing or malformed header line")

	// ErrBadLine is returned for a line that cannot be parsed.
	ErrBadLine = errors.New("malformed line")
)

// WriteDIMACS writes g as `p edge N M` followed by one 1-based `e u v` line
// per edge in index order.
func WriteDIMACS(w io.Writer, g *Multigraph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p edge %d %d\n", g.Order(), g.Size())
	for _, e := range g.edges {
		fmt.Fprintf(bw, "e %d %d\n", e.U+1, e.V+1)
	}
	return bw.Flush()
}

// ReadDIMACS parses a DIMACS edge file. `c` comment lines are skipped and both
// `e` and `a` edge lines are accepted.
func ReadDIMACS(r io.Reader) (*Multigraph, error) {
	var g *Multigraph
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "p":
			if len(fields) < 4 {
				return nil, errors.Wrapf(ErrBadHeader, "line %d", lineNo)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(ErrBadHeader, "line %d: %v", lineNo, err)
			}
			g = New(n)
		case "e", "a":
			if g == nil {
				return nil, errors.Wrapf(ErrBadHeader, "edge before header on line %d", lineNo)
			}
			if len(fields) < 3 {
				return nil, errors.Wrapf(ErrBadLine, "line %d", lineNo)
			}
			ids, err := atois(fields[1:3])
			if err != nil {
				return nil, errors.Wrapf(ErrBadLine, "line %d", lineNo)
			}
			u, v := ids[0]-1, ids[1]-1
			if u < 0 || v < 0 || u >= g.Order() || v >= g.Order() {
				return nil, errors.Wrapf(ErrBadLine, "vertex out of range on line %d", lineNo)
			}
			g.AddEdge(u, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrBadHeader
	}
	return g, nil
}

// WriteCode writes a vertex or edge code: `p <count>` and then one line of
// whitespace separated ids per vertex.
func WriteCode(w io.Writer, code [][]int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p %d\n", len(code))
	for _, row := range code {
		bw.WriteString(joinInts(row))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadCode reads what WriteCode writes.
func ReadCode(r io.Reader) ([][]int, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, ErrBadHeader
	}
	header := strings.Fields(sc.Text())
	if len(header) != 2 || header[0] != "p" {
		return nil, ErrBadHeader
	}
	n, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, errors.Wrap(ErrBadHeader, err.Error())
	}

	code := make([][]int, 0, n)
	for sc.Scan() {
		row, err := atois(strings.Fields(sc.Text()))
		if err != nil {
			return nil, errors.Wrapf(ErrBadLine, "vertex %d", len(code))
		}
		code = append(code, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for len(code) < n {
		code = append(code, nil)
	}
	return code[:n], nil
}

// WriteTrails writes one line of vertex ids per trail.
func WriteTrails(w io.Writer, trails [][]int) error {
	bw := bufio.NewWriter(w)
	for _, t := range trails {
		bw.WriteString(joinInts(t))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadTrails reads what WriteTrails writes. Blank lines are skipped.
func ReadTrails(r io.Reader) ([][]int, error) {
	var trails [][]int
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		t, err := atois(fields)
		if err != nil {
			return nil, errors.Wrapf(ErrBadLine, "trail %d", len(trails))
		}
		trails = append(trails, t)
	}
	return trails, sc.Err()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func atois(fields []string) ([]int, error) {
	xs := make([]int, len(fields))
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}
