// Package dot renders the classified topology as a Graphviz diagram.
//
// This is a debugging view of the role assigner, not the SLD itself: nodes
// are symbols labeled with their role and layer, edges are adjacency. Use
// [ToDOT] to produce DOT source and [RenderSVG] for in-process rendering
// via [github.com/goccy/go-graphviz].
package dot

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes voltage level and layer in node labels.
	// When false, only the symbol ID is shown.
	Detailed bool
}

// ToDOT converts a classified symbol set to Graphviz DOT source. Nodes and
// edges are emitted in sorted ID order for byte-stable output. Busbars are
// drawn as filled horizontal boxes, everything else as rounded boxes.
func ToDOT(symbols []model.Symbol, res *topo.Result, opts Options) string {
	byID := make(map[string]model.Symbol, len(symbols))
	var ids []string
	for _, s := range symbols {
		if _, ok := res.Assignments[s.ID()]; !ok {
			continue
		}
		byID[s.ID()] = s
		ids = append(ids, s.ID())
	}
	slices.Sort(ids)

	var buf bytes.Buffer
	buf.WriteString("graph SLD {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	for _, id := range ids {
		a := res.Assignments[id]
		label := fmtLabel(byID[id], a, opts.Detailed)
		attrs := fmtAttrs(byID[id], a, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		for _, n := range res.Neighbors[id] {
			if id < n {
				fmt.Fprintf(&buf, "  %q -- %q;\n", id, n)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s model.Symbol, a topo.Assignment, detailed bool) string {
	name := s.DisplayName()
	if name == "" {
		name = s.ID()
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\n%s %s L%d", name, a.Role, a.Voltage, int(a.Layer))
}

func fmtAttrs(s model.Symbol, a topo.Assignment, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch s.(type) {
	case model.Bus:
		attrs = append(attrs, "shape=box", "style=filled", "fillcolor=black", "fontcolor=white", "height=0.1")
	case model.TransformerBranch:
		attrs = append(attrs, "shape=doublecircle")
	case model.Source:
		attrs = append(attrs, "shape=circle")
	}
	if a.Role == topo.RoleSection {
		attrs = append(attrs, "fillcolor=grey25")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz in-process.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
