package skeleton

import (
	"slices"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// hop returns the vertical advance below the previous chain element for
// one symbol type.
func (b *builder) hop(s model.Symbol) float64 {
	switch s.(type) {
	case model.LineBranch, model.TransformerBranch:
		return b.cfg.BranchHop
	default:
		return b.cfg.ChainHop
	}
}

// layoutChains stacks every feeder chain downward from its busbar slot.
// X is fixed to the slot; Y advances per member by a type-dependent hop.
func (b *builder) layoutChains(busbars []BusbarLayout) {
	for _, bl := range busbars {
		for _, sec := range bl.Sections {
			chains := b.res.Chains[sec.BusID]
			for _, slot := range sec.Slots {
				chain := chains[slot.ChainIndex]
				y := float64(bl.Y)
				for _, member := range chain.Members {
					s, ok := b.symbols[member]
					if !ok {
						continue
					}
					y += b.hop(s)
					b.positions[member] = geom.Point{X: slot.X, Y: b.cfg.Snap(y)}
				}
			}
		}
	}
}

// layoutStations places each sub-station as a compact vertical stack: the
// transformer below its feeding switch, the local nN busbar a fixed drop
// below the transformer, then the nN switchgear and loads.
//
// A station without a positioned feed anchor is stacked in a secondary
// column parallel to the spine, offset to the right of the main layout.
func (b *builder) layoutStations(spineX int) {
	for i, st := range b.res.Stations {
		trX, trY, anchored := b.stationAnchor(st)
		if !anchored {
			trX = b.cfg.Snap(float64(spineX) + b.cfg.StationOffsetX + float64(i)*2*b.cfg.BayWidth)
			trY = b.cfg.LayerY(int(topo.LayerStationTrafo))
		}
		b.positions[st.TransformerID] = geom.Point{X: trX, Y: trY}

		busY := b.cfg.Snap(float64(trY) + b.cfg.StationBusDrop)
		if st.BusID != "" {
			b.positions[st.BusID] = geom.Point{X: trX, Y: busY}
		}

		b.layoutStationMembers(st, trX, busY)
	}
}

// stationAnchor derives the station's X column and transformer Y from the
// already positioned feeder switch on the SN side, if one exists.
func (b *builder) stationAnchor(st topo.Station) (x, y int, ok bool) {
	tr, exists := b.symbols[st.TransformerID].(model.TransformerBranch)
	if !exists {
		return 0, 0, false
	}
	for _, id := range b.atNode[tr.PrimaryNode] {
		if id == st.TransformerID {
			continue
		}
		p, placed := b.positions[id]
		if !placed {
			continue
		}
		return p.X, b.cfg.Snap(float64(p.Y) + b.cfg.BranchHop), true
	}
	return 0, 0, false
}

// layoutStationMembers places the nN-side members of one station: the
// switch row directly below the bus, terminals below their switch when
// adjacent, the rest in a symmetric row one hop deeper.
func (b *builder) layoutStationMembers(st topo.Station, busX, busY int) {
	var switches, terminals []string
	for _, id := range st.MemberIDs {
		if id == st.TransformerID || id == st.BusID {
			continue
		}
		if _, ok := b.symbols[id].(model.Switch); ok {
			switches = append(switches, id)
		} else {
			terminals = append(terminals, id)
		}
	}
	slices.Sort(switches)
	slices.Sort(terminals)

	switchY := b.cfg.Snap(float64(busY) + b.cfg.ChainHop)
	for i, id := range switches {
		offset := (float64(i) - float64(len(switches)-1)/2) * b.cfg.SymbolSpacing
		b.positions[id] = geom.Point{X: b.cfg.Snap(float64(busX) + offset), Y: switchY}
	}

	deepY := b.cfg.Snap(float64(switchY) + b.cfg.ChainHop)
	var loose []string
	for _, id := range terminals {
		if swID := b.adjacentPlacedSwitch(id, switches); swID != "" {
			b.positions[id] = geom.Point{X: b.positions[swID].X, Y: deepY}
			continue
		}
		loose = append(loose, id)
	}
	for i, id := range loose {
		offset := (float64(i) - float64(len(loose)-1)/2) * b.cfg.SymbolSpacing
		b.positions[id] = geom.Point{X: b.cfg.Snap(float64(busX) + offset), Y: deepY}
	}
}

// adjacentPlacedSwitch returns the first station switch sharing a node
// with the given symbol, in sorted order.
func (b *builder) adjacentPlacedSwitch(id string, switches []string) string {
	neighbors := b.res.Neighbors[id]
	for _, swID := range switches {
		if slices.Contains(neighbors, swID) {
			return swID
		}
	}
	return ""
}
