// Package skeleton turns role assignments into concrete grid-snapped
// geometry: tiers, busbar sections, feeder slots and absolute positions.
//
// The builder is purely derived: it reads the symbol set and the topo
// result, never caller state, and produces a fresh [Skeleton] per run. All
// iteration is over ID-sorted collections, so the output is a pure
// function of topology.
package skeleton

import (
	"slices"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// Tier is one canonical layer with its resolved Y offset and members.
type Tier struct {
	Layer     topo.Layer
	Y         int
	MemberIDs []string // sorted
}

// Slot is one lateral feeder position along a busbar section.
type Slot struct {
	X          int
	ChainIndex int
}

// SectionLayout is one drawn busbar segment with its feeder slots. Slot X
// positions are evenly spaced and strictly increasing with slot index.
type SectionLayout struct {
	BusID   string
	CenterX int
	Width   int
	Slots   []Slot
}

// BusbarLayout is one logical busbar: a single section, or the
// coupler-separated section group sharing one group key.
type BusbarLayout struct {
	// Key is the logical busbar key (the lexically smallest member bus ID).
	Key      string
	Y        int
	Sections []SectionLayout
}

// Skeleton is the fully positioned geometry of one layout run. It is
// immutable once returned.
type Skeleton struct {
	// SpineX is the X coordinate of the main supply axis.
	SpineX int

	Tiers   []Tier
	Busbars []BusbarLayout

	// Positions maps every placed symbol ID to its grid-snapped point.
	Positions map[string]geom.Point

	// Quarantined lists symbols that could not be placed from topology
	// and were routed to the quarantine grid, sorted.
	Quarantined []string
}

// builder carries the working state of one build.
type builder struct {
	cfg       geom.Config
	symbols   map[string]model.Symbol
	order     []string // surviving symbol IDs, sorted
	atNode    map[string][]string
	res       *topo.Result
	positions map[string]geom.Point
}

// Build computes the skeleton for one assigned symbol set.
func Build(symbols []model.Symbol, res *topo.Result, cfg geom.Config) *Skeleton {
	b := &builder{
		cfg:       cfg,
		symbols:   make(map[string]model.Symbol, len(symbols)),
		res:       res,
		positions: make(map[string]geom.Point),
	}
	for _, s := range symbols {
		if _, ok := res.Assignments[s.ID()]; !ok {
			continue
		}
		b.symbols[s.ID()] = s
	}
	b.order = make([]string, 0, len(b.symbols))
	for id := range b.symbols {
		b.order = append(b.order, id)
	}
	slices.Sort(b.order)

	b.atNode = make(map[string][]string)
	for _, id := range b.order {
		for _, node := range b.symbols[id].Nodes() {
			if node != "" {
				b.atNode[node] = append(b.atNode[node], id)
			}
		}
	}
	for node := range b.atNode {
		slices.Sort(b.atNode[node])
	}

	sk := &Skeleton{Positions: b.positions}
	sk.SpineX = b.spineX()
	sk.Busbars = b.layoutBusbars()
	b.layoutAxials(sk.SpineX)
	b.layoutChains(sk.Busbars)
	b.layoutStations(sk.SpineX)
	b.placeFallbacks()
	sk.Quarantined = b.placeQuarantine()
	sk.Tiers = b.tiers()

	if cfg.Orientation == geom.LeftRight {
		transpose(sk)
	}
	return sk
}

// spineX anchors the main supply axis at the center of the minimum busbar
// band. The axis is a pure function of the config: busbar sections grow
// rightward from the margin, so adding feeders never moves the spine or
// the symbols stacked on it.
func (b *builder) spineX() int {
	return b.cfg.Snap(b.cfg.SpineMargin + b.cfg.MinBusbarWidth/2)
}

// tiers groups placed symbols into canonical layers with resolved offsets.
func (b *builder) tiers() []Tier {
	members := make(map[topo.Layer][]string)
	for _, id := range b.order {
		a := b.res.Assignments[id]
		members[a.Layer] = append(members[a.Layer], id)
	}
	var tiers []Tier
	for layer := topo.Layer(0); layer < topo.LayerCount; layer++ {
		ids := members[layer]
		if len(ids) == 0 {
			continue
		}
		slices.Sort(ids)
		tiers = append(tiers, Tier{Layer: layer, Y: b.cfg.LayerY(int(layer)), MemberIDs: ids})
	}
	return tiers
}

// transpose swaps the axes of every coordinate for left-right orientation.
func transpose(sk *Skeleton) {
	for id, p := range sk.Positions {
		sk.Positions[id] = geom.Point{X: p.Y, Y: p.X}
	}
}
