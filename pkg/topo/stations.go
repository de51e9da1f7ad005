package topo

import (
	"slices"

	"github.com/mlorenc/sldgrid/pkg/model"
)

// detectStations finds local SN/nN sub-stations: a step-down transformer
// whose secondary side feeds an nN bus, plus everything hanging off that
// bus. Station members are later routed into the station layer band
// (L8..L12) instead of the main feeder stack.
//
// The returned map assigns each member symbol ID to its station key (the
// transformer ID). The feeder switch on the SN side stays outside the
// station so it can keep its busbar slot.
func detectStations(g *graph, levels map[string]VoltageLevel) ([]Station, map[string]string) {
	var stations []Station
	memberOf := make(map[string]string)

	for _, id := range g.order {
		tr, ok := g.symbols[id].(model.TransformerBranch)
		if !ok {
			continue
		}
		if _, taken := memberOf[id]; taken {
			continue
		}
		secondaryBus := g.busAtNode[tr.SecondaryNode]
		if secondaryBus == "" || levels[secondaryBus] != VoltageNN {
			continue
		}
		primaryLevel := nearestBusLevel(g, tr.PrimaryNode, id, levels)
		if primaryLevel != VoltageSN {
			continue
		}

		st := Station{TransformerID: id, BusID: secondaryBus}
		members := map[string]bool{id: true, secondaryBus: true}
		collectStationMembers(g, g.symbols[secondaryBus], members, levels)

		st.MemberIDs = make([]string, 0, len(members))
		for m := range members {
			st.MemberIDs = append(st.MemberIDs, m)
		}
		slices.Sort(st.MemberIDs)
		for _, m := range st.MemberIDs {
			memberOf[m] = id
		}
		stations = append(stations, st)
	}

	return stations, memberOf
}

// nearestBusLevel resolves the voltage level seen from a node: the level
// of a bus directly at the node, or of a bus one switch hop away.
func nearestBusLevel(g *graph, node, exclude string, levels map[string]VoltageLevel) VoltageLevel {
	if busID := g.busAtNode[node]; busID != "" {
		return levels[busID]
	}
	for _, id := range g.attachedAt(node, exclude) {
		sw, ok := g.symbols[id].(model.Switch)
		if !ok {
			continue
		}
		if busID := g.busAtNode[otherNode(sw, node)]; busID != "" {
			return levels[busID]
		}
	}
	return VoltageUnknown
}

// collectStationMembers walks outward from the station's nN bus, claiming
// switches, loads, sources and line branches. The walk never crosses
// another bus, so two stations sharing a tie line stay separate.
func collectStationMembers(g *graph, from model.Symbol, members map[string]bool, levels map[string]VoltageLevel) {
	for _, node := range from.Nodes() {
		for _, id := range g.atNode[node] {
			if members[id] {
				continue
			}
			switch s := g.symbols[id].(type) {
			case model.Switch, model.LineBranch:
				members[id] = true
				collectStationMembers(g, s, members, levels)
			case model.Load, model.Source:
				members[id] = true
			}
		}
	}
}
