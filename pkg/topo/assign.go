package topo

import (
	"github.com/mlorenc/sldgrid/pkg/model"
)

// chainRef locates one symbol inside a feeder chain.
type chainRef struct {
	busbar      string
	key         string
	head        bool
	feedStation bool
}

// Assign classifies every symbol. It is a pure function of the symbol set:
// two calls with permutations of the same symbols return identical results.
func Assign(symbols []model.Symbol) *Result {
	g, filtered := buildGraph(symbols)

	levels := classifyVoltages(g)
	couplers := detectCouplers(g)
	stations, stationOf := detectStations(g, levels)
	chains := detectChains(g, stationOf, couplers, levels)

	// Index couplers and chain membership for the role table.
	partner := make(map[string]string)
	sectionKey := make(map[string]string)
	couplerSwitch := make(map[string]string)
	for _, c := range couplers {
		partner[c.BusA] = c.BusB
		partner[c.BusB] = c.BusA
		sectionKey[c.BusA] = c.logicalKey()
		sectionKey[c.BusB] = c.logicalKey()
		couplerSwitch[c.SwitchID] = c.logicalKey()
	}

	chainOf := make(map[string]chainRef)
	for busbar, list := range chains {
		for _, chain := range list {
			feeds := chainFeedsStation(g, chain, stationOf)
			for i, member := range chain.Members {
				chainOf[member] = chainRef{
					busbar:      busbar,
					key:         chain.Key(),
					head:        i == 0,
					feedStation: feeds,
				}
			}
		}
	}

	res := &Result{
		Assignments: make(map[string]Assignment, len(g.order)),
		FilteredIDs: filtered,
		Stations:    stations,
		Chains:      chains,
		Neighbors:   g.neighbors,
	}
	for _, id := range g.order {
		res.Assignments[id] = classify(g, id, levels, partner, sectionKey, couplerSwitch, stationOf, chainOf)
	}
	return res
}

// chainFeedsStation reports whether the chain's switch leads into a
// detected sub-station, which promotes the switch to the station layer
// band.
func chainFeedsStation(g *graph, chain FeederChain, stationOf map[string]string) bool {
	if chain.SwitchID == "" {
		return false
	}
	sw := g.symbols[chain.SwitchID]
	for _, node := range sw.Nodes() {
		for _, id := range g.attachedAt(node, chain.SwitchID) {
			if _, ok := g.symbols[id].(model.TransformerBranch); !ok {
				continue
			}
			if _, inStation := stationOf[id]; inStation {
				return true
			}
		}
	}
	return false
}

// classify computes the role, voltage and canonical layer of one symbol
// from the lookup tables built by [Assign]. The dispatch is a fixed
// per-type table; nothing here depends on iteration order.
func classify(
	g *graph,
	id string,
	levels map[string]VoltageLevel,
	partner, sectionKey, couplerSwitch, stationOf map[string]string,
	chainOf map[string]chainRef,
) Assignment {
	station, inStation := stationOf[id]
	chain, inChain := chainOf[id]

	switch s := g.symbols[id].(type) {
	case model.Bus:
		a := Assignment{Role: RoleBusbar, Voltage: levels[id]}
		switch levels[id] {
		case VoltageWN:
			a.Layer = LayerWNBus
		case VoltageNN:
			a.Layer = LayerNNBus
		default:
			a.Layer = LayerSNBus
		}
		if p, coupled := partner[id]; coupled {
			a.Role = RoleSection
			a.ParentBusbar = p
			a.GroupKey = sectionKey[id]
		}
		if inStation {
			a.Layer = LayerNNBus
			a.GroupKey = station
		}
		return a

	case model.Source:
		if inStation {
			return Assignment{Role: RolePowerSource, Voltage: VoltageNN, Layer: LayerNNSource, GroupKey: station}
		}
		if inChain {
			return Assignment{Role: RolePowerSource, Voltage: busLevel(g, levels, chain.busbar), Layer: LayerFeederBranch, ParentBusbar: chain.busbar, GroupKey: chain.key}
		}
		return Assignment{Role: RolePowerSource, Voltage: attachedLevel(g, s, levels), Layer: LayerSource}

	case model.Switch:
		if key, coupler := couplerSwitch[id]; coupler {
			a := Assignment{Role: RoleInline, Voltage: attachedLevel(g, s, levels), GroupKey: key, Layer: LayerSNBus}
			if a.Voltage == VoltageWN {
				a.Layer = LayerWNBus
			}
			return a
		}
		if inStation {
			return Assignment{Role: RoleInline, Voltage: VoltageNN, Layer: LayerNNSwitch, GroupKey: station}
		}
		if inChain {
			layer := LayerFeederSwitch
			if chain.feedStation {
				layer = LayerStationSwitch
			}
			return Assignment{Role: RoleFeeder, Voltage: busLevel(g, levels, chain.busbar), Layer: layer, ParentBusbar: chain.busbar, GroupKey: chain.key}
		}
		if isSourceSwitch(g, s) {
			return Assignment{Role: RoleAxial, Voltage: VoltageWN, Layer: LayerSourceSwitch}
		}
		return Assignment{Role: RoleInline, Voltage: attachedLevel(g, s, levels), Layer: LayerFeederSwitch}

	case model.TransformerBranch:
		if inStation {
			return Assignment{Role: RoleAxial, Voltage: VoltageSN, Layer: LayerStationTrafo, GroupKey: station}
		}
		a := Assignment{Role: RoleAxial, Voltage: VoltageWN, Layer: LayerMainTransformer}
		if inChain {
			a.ParentBusbar = chain.busbar
			a.GroupKey = chain.key
			if chain.head {
				a.Role = RoleFeeder
			}
		}
		return a

	case model.LineBranch:
		if inStation {
			return Assignment{Role: RoleInline, Voltage: VoltageNN, Layer: LayerNNLoad, GroupKey: station}
		}
		a := Assignment{Role: RoleInline, Voltage: attachedLevel(g, s, levels), Layer: LayerFeederBranch}
		if inChain {
			a.ParentBusbar = chain.busbar
			a.GroupKey = chain.key
			if chain.head {
				a.Role = RoleFeeder
			}
		}
		return a

	case model.Load:
		if inStation {
			return Assignment{Role: RoleInline, Voltage: VoltageNN, Layer: LayerNNLoad, GroupKey: station}
		}
		a := Assignment{Role: RoleInline, Voltage: attachedLevel(g, s, levels), Layer: LayerFeederBranch}
		if inChain {
			a.ParentBusbar = chain.busbar
			a.GroupKey = chain.key
		}
		return a

	default:
		// Unreachable: the symbol interface is sealed.
		return Assignment{Role: RoleInline, Voltage: VoltageUnknown, Layer: LayerFeederBranch}
	}
}

// busLevel returns the voltage level of a busbar ID.
func busLevel(g *graph, levels map[string]VoltageLevel, busID string) VoltageLevel {
	if lvl, ok := levels[busID]; ok {
		return lvl
	}
	return VoltageUnknown
}

// attachedLevel resolves a non-bus symbol's voltage from the first bus at
// any of its nodes, in node order.
func attachedLevel(g *graph, s model.Symbol, levels map[string]VoltageLevel) VoltageLevel {
	for _, node := range s.Nodes() {
		if busID := g.busAtNode[node]; busID != "" {
			return levels[busID]
		}
	}
	return VoltageUnknown
}

// isSourceSwitch reports whether a switch sits between a power source and
// a WN busbar, which routes it to the source-switchgear layer.
func isSourceSwitch(g *graph, sw model.Switch) bool {
	from, to := g.busEndpoints(sw)
	busSide := from
	if busSide == "" {
		busSide = to
	}
	if busSide == "" {
		return false
	}
	farNode := sw.ToNode
	if g.busAtNode[sw.FromNode] == "" {
		farNode = sw.FromNode
	}
	for _, id := range g.attachedAt(farNode, sw.ID()) {
		if _, ok := g.symbols[id].(model.Source); ok {
			return true
		}
	}
	return false
}
