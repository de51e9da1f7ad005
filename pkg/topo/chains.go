package topo

import (
	"slices"

	"github.com/mlorenc/sldgrid/pkg/model"
)

// couplerInfo records one detected busbar coupler.
type couplerInfo struct {
	SwitchID string
	BusA     string // lexically smaller busbar ID
	BusB     string
}

// logicalKey returns the shared key of the coupled busbar pair.
func (c couplerInfo) logicalKey() string { return c.BusA }

// detectCouplers finds switches whose both endpoints are busbars. The two
// busbars become mutually paired sections sharing one logical busbar.
func detectCouplers(g *graph) []couplerInfo {
	var couplers []couplerInfo
	for _, id := range g.order {
		sw, ok := g.symbols[id].(model.Switch)
		if !ok {
			continue
		}
		from, to := g.busEndpoints(sw)
		if from == "" || to == "" || from == to {
			continue
		}
		if from > to {
			from, to = to, from
		}
		couplers = append(couplers, couplerInfo{SwitchID: id, BusA: from, BusB: to})
	}
	return couplers
}

// detectChains builds the feeder chains per busbar.
//
// A chain starts at a switch with exactly one busbar endpoint, or at a
// branch hanging directly off a busbar that is not a bus-to-bus tie. The
// chain collects the optional branch behind the switch and any loads or
// sources at the branch's far end. Symbols claimed by a station, coupler
// switches and bus-to-bus transformers never form chains.
//
// Chains are grouped by owning busbar and sorted by their switch-or-branch
// ID so that slot order is a pure function of symbol IDs.
func detectChains(g *graph, skip map[string]string, couplers []couplerInfo, levels map[string]VoltageLevel) map[string][]FeederChain {
	coupler := make(map[string]bool, len(couplers))
	for _, c := range couplers {
		coupler[c.SwitchID] = true
	}

	chains := make(map[string][]FeederChain)
	claimed := make(map[string]bool)

	// Switch-headed chains first: a branch reachable through a switch
	// belongs to that switch's chain, not to a direct-branch chain.
	for _, id := range g.order {
		sw, ok := g.symbols[id].(model.Switch)
		if !ok || coupler[id] {
			continue
		}
		if _, inStation := skip[id]; inStation {
			continue
		}
		from, to := g.busEndpoints(sw)
		if (from == "") == (to == "") {
			continue
		}
		busbar, farNode := from, sw.ToNode
		if busbar == "" {
			busbar, farNode = to, sw.FromNode
		}
		if levels[busbar] == VoltageWN && attachesSource(g, farNode, id) {
			// Supply path between source and WN busbar; axial, not a feeder.
			continue
		}

		chain := FeederChain{Busbar: busbar, SwitchID: id, Members: []string{id}}
		claimed[id] = true
		followChain(g, &chain, farNode, id, skip, claimed)
		chains[busbar] = append(chains[busbar], chain)
	}

	// Direct branches without a switch.
	for _, id := range g.order {
		if claimed[id] {
			continue
		}
		if _, inStation := skip[id]; inStation {
			continue
		}
		s := g.symbols[id]
		switch s.(type) {
		case model.LineBranch, model.TransformerBranch:
		default:
			continue
		}
		from, to := g.busEndpoints(s)
		if from != "" && to != "" {
			// Bus-to-bus tie (e.g. the main transformer); axial, not a feeder.
			continue
		}
		busbar := from
		if busbar == "" {
			busbar = to
		}
		if busbar == "" {
			continue
		}
		busNode := s.Nodes()[0]
		if g.busAtNode[busNode] != busbar {
			busNode = s.Nodes()[1]
		}
		chain := FeederChain{Busbar: busbar, BranchID: id, Members: []string{id}}
		claimed[id] = true
		collectTerminals(g, &chain, otherNode(s, busNode), id, skip, claimed)
		chains[busbar] = append(chains[busbar], chain)
	}

	for busbar := range chains {
		slices.SortFunc(chains[busbar], func(a, b FeederChain) int {
			ka, kb := a.Key(), b.Key()
			if ka < kb {
				return -1
			}
			if ka > kb {
				return 1
			}
			return 0
		})
	}
	return chains
}

// attachesSource reports whether a power source sits at the given node.
func attachesSource(g *graph, node, exclude string) bool {
	for _, id := range g.attachedAt(node, exclude) {
		if _, ok := g.symbols[id].(model.Source); ok {
			return true
		}
	}
	return false
}

// followChain extends a switch-headed chain past the switch: one optional
// branch, then terminal loads and sources.
func followChain(g *graph, chain *FeederChain, node, exclude string, skip map[string]string, claimed map[string]bool) {
	for _, id := range g.attachedAt(node, exclude) {
		if claimed[id] {
			continue
		}
		if _, inStation := skip[id]; inStation {
			continue
		}
		switch s := g.symbols[id].(type) {
		case model.LineBranch:
			if chain.BranchID == "" {
				chain.BranchID = id
				chain.Members = append(chain.Members, id)
				claimed[id] = true
				collectTerminals(g, chain, otherNode(s, node), id, skip, claimed)
			}
		case model.TransformerBranch:
			if chain.BranchID == "" {
				chain.BranchID = id
				chain.Members = append(chain.Members, id)
				claimed[id] = true
				collectTerminals(g, chain, otherNode(s, node), id, skip, claimed)
			}
		case model.Load, model.Source:
			chain.Members = append(chain.Members, id)
			claimed[id] = true
		}
	}
}

// collectTerminals appends loads and sources hanging off the far end of a
// chain's branch.
func collectTerminals(g *graph, chain *FeederChain, node, exclude string, skip map[string]string, claimed map[string]bool) {
	if node == "" {
		return
	}
	for _, id := range g.attachedAt(node, exclude) {
		if claimed[id] {
			continue
		}
		if _, inStation := skip[id]; inStation {
			continue
		}
		switch g.symbols[id].(type) {
		case model.Load, model.Source:
			chain.Members = append(chain.Members, id)
			claimed[id] = true
		}
	}
}
