package relax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/jjtimmons/vhelix/internal/physics"
)

// Link is the far end of a connection in a SceneDescription. Helix is -1 for
// a free attachment point.
type Link struct {
	Helix int
	Point AttachmentPoint
}

// HelixDescription is a snapshot of one helix.
type HelixDescription struct {
	Name      string
	Bases     int
	Transform physics.Transform
	Links     [4]Link
}

// SceneDescription is a snapshot of a scene that outlives its physics
// context, used to keep the best state found while relaxing.
type SceneDescription struct {
	Helices      []HelixDescription
	Separation   Separation
	ScaffoldFree bool
}

// Describe takes a snapshot of s.
func Describe(s *Scene) *SceneDescription {
	index := make(map[*Helix]int, len(s.helices))
	for i, h := range s.helices {
		index[h] = i
	}

	d := &SceneDescription{
		Helices:      make([]HelixDescription, len(s.helices)),
		Separation:   s.Separation(),
		ScaffoldFree: len(s.trails) > 0,
	}
	for i, h := range s.helices {
		hd := HelixDescription{
			Name:      helixName(i),
			Bases:     h.BaseCount(),
			Transform: h.Transform(),
		}
		for p, c := range h.joints {
			hd.Links[p] = Link{Helix: -1, Point: -1}
			if c.Connected() {
				hd.Links[p] = Link{Helix: index[c.Helix], Point: c.Point}
			}
		}
		d.Helices[i] = hd
	}
	return d
}

func helixName(i int) string {
	return "helix_" + strconv.Itoa(i+1)
}

// formatFloat prints six significant digits, the shortest way.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// Write prints the description as an rpoly file: helix bodies, the
// connections between them and the scaffold start.
func (d *SceneDescription) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, h := range d.Helices {
		p, q := h.Transform.P, h.Transform.Q
		fmt.Fprintf(bw, "hb %s %d %s %s %s %s %s %s %s\n", h.Name, h.Bases,
			formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z),
			formatFloat(q.Imag), formatFloat(q.Jmag), formatFloat(q.Kmag), formatFloat(q.Real))
	}
	fmt.Fprintln(bw)

	for _, h := range d.Helices {
		if d.ScaffoldFree {
			for _, p := range []AttachmentPoint{ForwardThreePrime, BackwardThreePrime} {
				if l := h.Links[p]; l.Helix >= 0 {
					fmt.Fprintf(bw, "c %s %s %s %s\n", h.Name, p, d.Helices[l.Helix].Name, l.Point)
				}
			}
			continue
		}
		if l := h.Links[ForwardThreePrime]; l.Helix >= 0 {
			fmt.Fprintf(bw, "c %s %s %s %s\n", h.Name, ForwardThreePrime, d.Helices[l.Helix].Name, ForwardFivePrime)
		}
		if l := h.Links[BackwardFivePrime]; l.Helix >= 0 {
			fmt.Fprintf(bw, "c %s %s %s %s\n", d.Helices[l.Helix].Name, BackwardThreePrime, h.Name, BackwardFivePrime)
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "autostaple")
	if len(d.Helices) > 0 {
		fmt.Fprintf(bw, "ps %s %s\n", d.Helices[0].Name, ForwardThreePrime)
	}
	return bw.Flush()
}

// String is the separation as printed in logs and file headers.
func (s Separation) String() string {
	return fmt.Sprintf("min: %s, max: %s, average: %s, total: %s nm",
		formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Average), formatFloat(s.Total))
}
