package skeleton

import (
	"slices"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// layoutBusbars positions every busbar outside station stacks and builds
// the section and slot geometry.
//
// Coupled sections sharing a group key form one logical busbar: each
// section is sized from its own slot count and the group is anchored at
// the left spine margin, growing rightward as sections widen. The anchor
// keeps existing sections and the spine in place when a feeder is added.
// Coupler switches land in the gaps between adjacent sections.
func (b *builder) layoutBusbars() []BusbarLayout {
	stationMember := b.stationMembers()

	// Group buses into logical busbars.
	groups := make(map[string][]string)
	for _, id := range b.order {
		bus, ok := b.symbols[id].(model.Bus)
		if !ok {
			continue
		}
		if _, inStation := stationMember[id]; inStation {
			continue
		}
		a := b.res.Assignments[bus.ID()]
		key := id
		if a.Role == topo.RoleSection && a.GroupKey != "" {
			key = a.GroupKey
		}
		groups[key] = append(groups[key], id)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var layouts []BusbarLayout
	for _, key := range keys {
		sections := groups[key]
		slices.Sort(sections)
		y := b.cfg.LayerY(int(b.res.Assignments[sections[0]].Layer))
		layouts = append(layouts, b.layoutGroup(key, sections, y))
	}
	return layouts
}

// layoutGroup sizes and places the sections of one logical busbar and its
// coupler switches, left-anchored at the spine margin.
func (b *builder) layoutGroup(key string, sections []string, y int) BusbarLayout {
	widths := make([]float64, len(sections))
	for i, busID := range sections {
		n := len(b.res.Chains[busID])
		widths[i] = max(b.cfg.MinBusbarWidth, 2*b.cfg.SectionSidePadding+float64(n)*b.cfg.BayWidth)
	}

	layout := BusbarLayout{Key: key, Y: y}
	left := b.cfg.SpineMargin
	for i, busID := range sections {
		sec := SectionLayout{
			BusID:   busID,
			Width:   b.cfg.Snap(widths[i]),
			CenterX: b.cfg.Snap(left + widths[i]/2),
		}
		slotLeft := left + b.cfg.SectionSidePadding + b.cfg.BayWidth/2
		for slot := range b.res.Chains[busID] {
			sec.Slots = append(sec.Slots, Slot{
				X:          b.cfg.Snap(slotLeft + float64(slot)*b.cfg.BayWidth),
				ChainIndex: slot,
			})
		}
		layout.Sections = append(layout.Sections, sec)
		b.positions[busID] = geom.Point{X: sec.CenterX, Y: y}

		if i < len(sections)-1 {
			gapCenter := left + widths[i] + b.cfg.SectionGap/2
			if coupler := b.couplerBetween(key, i); coupler != "" {
				b.positions[coupler] = geom.Point{X: b.cfg.Snap(gapCenter), Y: y}
			}
		}
		left += widths[i] + b.cfg.SectionGap
	}
	return layout
}

// couplerBetween returns the idx-th coupler switch of a logical busbar, in
// sorted switch-ID order.
func (b *builder) couplerBetween(key string, idx int) string {
	var couplers []string
	for _, id := range b.order {
		if _, ok := b.symbols[id].(model.Switch); !ok {
			continue
		}
		a := b.res.Assignments[id]
		if a.Role == topo.RoleInline && a.GroupKey == key {
			couplers = append(couplers, id)
		}
	}
	if idx >= len(couplers) {
		return ""
	}
	return couplers[idx]
}

// layoutAxials places the symbols of the pure spine layers (sources,
// source switchgear, main transformers) symmetrically around the spine.
func (b *builder) layoutAxials(spineX int) {
	axialLayers := []topo.Layer{topo.LayerSource, topo.LayerSourceSwitch, topo.LayerMainTransformer}
	for _, layer := range axialLayers {
		var ids []string
		for _, id := range b.order {
			a := b.res.Assignments[id]
			if a.Layer != layer || a.ParentBusbar != "" {
				continue
			}
			ids = append(ids, id)
		}
		y := b.cfg.LayerY(int(layer))
		for i, id := range ids {
			offset := (float64(i) - float64(len(ids)-1)/2) * b.cfg.SymbolSpacing
			b.positions[id] = geom.Point{X: b.cfg.Snap(float64(spineX) + offset), Y: y}
		}
	}
}

// stationMembers returns the union membership map over all stations.
func (b *builder) stationMembers() map[string]string {
	members := make(map[string]string)
	for _, st := range b.res.Stations {
		for _, id := range st.MemberIDs {
			members[id] = st.TransformerID
		}
	}
	return members
}
