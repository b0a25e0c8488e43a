// Package rpoly reads the rpoly format written by the relaxation: helix
// bodies with their base count and pose, connections between strand ends,
// the autostaple directive and the scaffold start.
package rpoly

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func tracer() tracing.Trace {
	return tracing.Select("vhelix.rpoly")
}

// ErrUnknownHelix means a connection or start names a helix never declared
// with hb.
var ErrUnknownHelix = errors.New("unknown helix")

var rpolyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "Point", Pattern: `[fb][35]'`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[file](
	participle.Lexer(rpolyLexer),
)

type file struct {
	Statements []*statement `parser:"@@*"`
}

type statement struct {
	Helix      *helixLine      `parser:"  \"hb\" @@"`
	Connection *connectionLine `parser:"| \"c\" @@"`
	Autostaple bool            `parser:"| @\"autostaple\""`
	Start      *startLine      `parser:"| \"ps\" @@"`
}

type helixLine struct {
	Pos    lexer.Position
	Name   string    `parser:"@Ident"`
	Bases  int       `parser:"@Number"`
	Coords []float64 `parser:"@Number @Number @Number @Number @Number @Number @Number"`
}

type connectionLine struct {
	Pos       lexer.Position
	From      string `parser:"@Ident"`
	FromPoint string `parser:"@Point"`
	To        string `parser:"@Ident"`
	ToPoint   string `parser:"@Point"`
}

type startLine struct {
	Pos   lexer.Position
	Helix string `parser:"@Ident"`
	Point string `parser:"@Point"`
}

// Helix is one hb line.
type Helix struct {
	Name     string
	Bases    int
	Position r3.Vec
	Rotation quat.Number
}

// Connection joins the strand end FromPoint of From to ToPoint of To.
// Points are written f3', f5', b3' or b5'.
type Connection struct {
	From, FromPoint string
	To, ToPoint     string
}

// Start is the scaffold start.
type Start struct {
	Helix, Point string
}

// Structure is a parsed rpoly file.
type Structure struct {
	Helices     []Helix
	Connections []Connection
	Autostaple  bool
	Start       *Start
}

// Helix returns the helix of the given name.
func (s *Structure) Helix(name string) (Helix, bool) {
	for _, h := range s.Helices {
		if h.Name == name {
			return h, true
		}
	}
	return Helix{}, false
}

// Parse reads an rpoly file from r.
func Parse(filename string, r io.Reader) (*Structure, error) {
	f, err := parser.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	return build(f)
}

// ParseString reads an rpoly file from s.
func ParseString(s string) (*Structure, error) {
	return Parse("", strings.NewReader(s))
}

func build(f *file) (*Structure, error) {
	s := &Structure{}
	known := make(map[string]bool)
	for _, st := range f.Statements {
		if h := st.Helix; h != nil {
			c := h.Coords
			s.Helices = append(s.Helices, Helix{
				Name:     h.Name,
				Bases:    h.Bases,
				Position: r3.Vec{X: c[0], Y: c[1], Z: c[2]},
				Rotation: quat.Number{Imag: c[3], Jmag: c[4], Kmag: c[5], Real: c[6]},
			})
			known[h.Name] = true
		}
	}

	for _, st := range f.Statements {
		switch {
		case st.Connection != nil:
			c := st.Connection
			for _, name := range []string{c.From, c.To} {
				if !known[name] {
					return nil, errors.Wrapf(ErrUnknownHelix, "%s at %s", name, c.Pos)
				}
			}
			s.Connections = append(s.Connections, Connection{From: c.From, FromPoint: c.FromPoint, To: c.To, ToPoint: c.ToPoint})
		case st.Start != nil:
			if !known[st.Start.Helix] {
				return nil, errors.Wrapf(ErrUnknownHelix, "%s at %s", st.Start.Helix, st.Start.Pos)
			}
			s.Start = &Start{Helix: st.Start.Helix, Point: st.Start.Point}
		case st.Autostaple:
			s.Autostaple = true
		}
	}

	tracer().Debugf("rpoly: %d helices, %d connections", len(s.Helices), len(s.Connections))
	return s, nil
}
