package topo

import (
	"slices"
	"strings"

	"github.com/mlorenc/sldgrid/pkg/model"
)

// boundaryPatterns are the literal substrings that mark a symbol as a
// point-of-common-coupling boundary abstraction. Matching is
// case-insensitive against the symbol's name, ID and declared type.
// Boundary nodes model the grid connection, not physical gear, and are
// never drawn.
var boundaryPatterns = []string{
	"pcc",
	"common coupling",
	"external grid",
	"grid equivalent",
	"boundary",
}

// isBoundary reports whether a symbol matches any boundary pattern.
func isBoundary(s model.Symbol) bool {
	probe := strings.ToLower(s.DisplayName() + " " + s.ID())
	if bus, ok := s.(model.Bus); ok {
		probe += " " + strings.ToLower(bus.DeclaredType)
	}
	for _, p := range boundaryPatterns {
		if strings.Contains(probe, p) {
			return true
		}
	}
	return false
}

// graph is the undirected adjacency view over one symbol set. Symbols are
// adjacent when they share an electrical node. All slices are kept sorted
// so that iteration order is a pure function of symbol IDs.
type graph struct {
	symbols map[string]model.Symbol
	order   []string // all surviving symbol IDs, sorted

	busAtNode map[string]string   // node ID -> bus symbol ID
	atNode    map[string][]string // node ID -> attached symbol IDs, sorted
	neighbors map[string][]string // symbol ID -> adjacent symbol IDs, sorted
}

// buildGraph sorts the symbols by ID, drops boundary nodes and constructs
// adjacency. It returns the graph plus the sorted filtered IDs.
func buildGraph(symbols []model.Symbol) (*graph, []string) {
	sorted := make([]model.Symbol, len(symbols))
	copy(sorted, symbols)
	slices.SortFunc(sorted, func(a, b model.Symbol) int {
		return strings.Compare(a.ID(), b.ID())
	})

	g := &graph{
		symbols:   make(map[string]model.Symbol, len(sorted)),
		busAtNode: make(map[string]string),
		atNode:    make(map[string][]string),
		neighbors: make(map[string][]string),
	}
	var filtered []string

	for _, s := range sorted {
		if isBoundary(s) {
			filtered = append(filtered, s.ID())
			continue
		}
		g.symbols[s.ID()] = s
		g.order = append(g.order, s.ID())
		for _, node := range s.Nodes() {
			if node == "" {
				continue
			}
			g.atNode[node] = append(g.atNode[node], s.ID())
			if _, ok := s.(model.Bus); ok {
				g.busAtNode[node] = s.ID()
			}
		}
	}

	for _, id := range g.order {
		set := make(map[string]struct{})
		for _, node := range g.symbols[id].Nodes() {
			for _, other := range g.atNode[node] {
				if other != id {
					set[other] = struct{}{}
				}
			}
		}
		adj := make([]string, 0, len(set))
		for other := range set {
			adj = append(adj, other)
		}
		slices.Sort(adj)
		g.neighbors[id] = adj
	}

	return g, filtered
}

// bus returns the bus symbol at a node, if any.
func (g *graph) bus(node string) (model.Bus, bool) {
	id, ok := g.busAtNode[node]
	if !ok {
		return model.Bus{}, false
	}
	b, ok := g.symbols[id].(model.Bus)
	return b, ok
}

// busEndpoints returns the bus IDs at a two-terminal symbol's endpoints.
// Missing endpoints yield empty strings.
func (g *graph) busEndpoints(s model.Symbol) (from, to string) {
	nodes := s.Nodes()
	if len(nodes) != 2 {
		return "", ""
	}
	return g.busAtNode[nodes[0]], g.busAtNode[nodes[1]]
}

// attachedAt returns the symbols at a node excluding the given ID.
func (g *graph) attachedAt(node, exclude string) []string {
	var out []string
	for _, id := range g.atNode[node] {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

// otherNode returns the endpoint of a two-terminal symbol that is not the
// given node.
func otherNode(s model.Symbol, node string) string {
	nodes := s.Nodes()
	if len(nodes) != 2 {
		return ""
	}
	if nodes[0] == node {
		return nodes[1]
	}
	return nodes[0]
}
