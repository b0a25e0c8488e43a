package design

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/jjtimmons/vhelix/internal/graph"
	"github.com/jjtimmons/vhelix/internal/route"
)

// Dump writes the graphs, codes and trails of res to files named base plus
// .dimacs, _multi.dimacs, .vcode, .ecode, .ntrail and .etrail. Files with
// nothing to hold are skipped.
func Dump(base string, res *route.Result) error {
	type dumpFile struct {
		suffix string
		skip   bool
		write  func(io.Writer) error
	}
	files := []dumpFile{
		{".dimacs", res.Graph == nil, func(w io.Writer) error { return graph.WriteDIMACS(w, res.Graph) }},
		{"_multi.dimacs", res.Multigraph == nil, func(w io.Writer) error { return graph.WriteDIMACS(w, res.Multigraph) }},
		{".vcode", res.VertexCode == nil, func(w io.Writer) error { return graph.WriteCode(w, res.VertexCode) }},
		{".ecode", res.EdgeCode == nil, func(w io.Writer) error { return graph.WriteCode(w, res.EdgeCode) }},
		{".ntrail", !res.Found, func(w io.Writer) error { return graph.WriteTrails(w, res.Trails) }},
		{".etrail", !res.Found || len(res.Edges) == 0, func(w io.Writer) error { return graph.WriteTrails(w, [][]int{res.Edges}) }},
	}

	for _, f := range files {
		if f.skip {
			continue
		}
		if err := writeFile(base+f.suffix, f.write); err != nil {
			return err
		}
		klog.V(2).Infof("wrote %s%s", base, f.suffix)
	}
	return nil
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// readTrails reads a node trail file as written by Dump.
func readTrails(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open trail file %s", path)
	}
	defer f.Close()

	trails, err := graph.ReadTrails(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if len(trails) == 0 {
		return nil, errors.Wrapf(ErrNoTrail, "%s is empty", path)
	}
	return trails, nil
}

func splitLog(log string) []string {
	return strings.Split(strings.TrimRight(log, "\n"), "\n")
}
