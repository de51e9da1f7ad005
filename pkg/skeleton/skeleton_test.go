package skeleton

import (
	"slices"
	"testing"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// plantSymbols is the reference network: one infeed, one step-down
// transformer, one SN busbar with three switched feeders.
func plantSymbols() []model.Symbol {
	return []model.Symbol{
		model.Source{Common: model.Common{SymbolID: "src-grid"}, Node: "n-grid"},
		model.Switch{Common: model.Common{SymbolID: "sw-grid"}, FromNode: "n-grid", ToNode: "n-wn", Closed: true},
		model.Bus{Common: model.Common{SymbolID: "bus-wn", Name: "110 kV"}, Node: "n-wn", VoltageKV: 110},
		model.TransformerBranch{Common: model.Common{SymbolID: "tr-main"}, PrimaryNode: "n-wn", SecondaryNode: "n-sn"},
		model.Bus{Common: model.Common{SymbolID: "bus-sn", Name: "15 kV"}, Node: "n-sn", VoltageKV: 15},

		model.Switch{Common: model.Common{SymbolID: "sw-f1"}, FromNode: "n-sn", ToNode: "n-f1"},
		model.LineBranch{Common: model.Common{SymbolID: "ln-f1"}, FromNode: "n-f1", ToNode: "n-t1"},
		model.Load{Common: model.Common{SymbolID: "ld-f1"}, Node: "n-t1"},

		model.Switch{Common: model.Common{SymbolID: "sw-f2"}, FromNode: "n-sn", ToNode: "n-f2"},
		model.LineBranch{Common: model.Common{SymbolID: "ln-f2"}, FromNode: "n-f2", ToNode: "n-t2"},
		model.Load{Common: model.Common{SymbolID: "ld-f2"}, Node: "n-t2"},

		model.Switch{Common: model.Common{SymbolID: "sw-f3"}, FromNode: "n-sn", ToNode: "n-f3"},
		model.LineBranch{Common: model.Common{SymbolID: "ln-f3"}, FromNode: "n-f3", ToNode: "n-t3"},
		model.Load{Common: model.Common{SymbolID: "ld-f3"}, Node: "n-t3"},
	}
}

func buildPlant(t *testing.T) (*Skeleton, geom.Config) {
	t.Helper()
	cfg := geom.DefaultConfig()
	symbols := plantSymbols()
	sk := Build(symbols, topo.Assign(symbols), cfg)
	return sk, cfg
}

func TestBuildPlacesEverySymbol(t *testing.T) {
	sk, _ := buildPlant(t)

	symbols := plantSymbols()
	if len(sk.Positions) != len(symbols) {
		t.Fatalf("placed %d of %d symbols", len(sk.Positions), len(symbols))
	}
	for _, s := range symbols {
		if _, ok := sk.Positions[s.ID()]; !ok {
			t.Errorf("no position for %s", s.ID())
		}
	}
	if len(sk.Quarantined) != 0 {
		t.Errorf("quarantined = %v, want none", sk.Quarantined)
	}
}

func TestBuildSnapsToGrid(t *testing.T) {
	sk, cfg := buildPlant(t)
	for id, p := range sk.Positions {
		if p.X%cfg.GridSize != 0 || p.Y%cfg.GridSize != 0 {
			t.Errorf("%s at %+v is off the %d px grid", id, p, cfg.GridSize)
		}
	}
}

func TestBuildLayerOrdering(t *testing.T) {
	sk, _ := buildPlant(t)
	p := sk.Positions

	// Supply flows top to bottom: source above WN bus above transformer
	// above SN bus above feeders.
	order := []string{"src-grid", "sw-grid", "bus-wn", "tr-main", "bus-sn", "sw-f1", "ln-f1"}
	for i := 1; i < len(order); i++ {
		if p[order[i-1]].Y >= p[order[i]].Y {
			t.Errorf("%s (y=%d) should sit above %s (y=%d)",
				order[i-1], p[order[i-1]].Y, order[i], p[order[i]].Y)
		}
	}
}

func TestBuildTiersMatchLayers(t *testing.T) {
	sk, cfg := buildPlant(t)

	for _, tier := range sk.Tiers {
		if tier.Y != cfg.LayerY(int(tier.Layer)) {
			t.Errorf("tier L%d at y=%d, want %d", tier.Layer, tier.Y, cfg.LayerY(int(tier.Layer)))
		}
		if !slices.IsSorted(tier.MemberIDs) {
			t.Errorf("tier L%d members not sorted: %v", tier.Layer, tier.MemberIDs)
		}
	}
}

func TestBuildSlotsStrictlyIncreasing(t *testing.T) {
	sk, _ := buildPlant(t)

	var snBar *BusbarLayout
	for i := range sk.Busbars {
		if sk.Busbars[i].Key == "bus-sn" {
			snBar = &sk.Busbars[i]
		}
	}
	if snBar == nil {
		t.Fatal("no busbar layout for bus-sn")
	}
	sec := snBar.Sections[0]
	if len(sec.Slots) != 3 {
		t.Fatalf("slots = %d, want 3", len(sec.Slots))
	}
	for i := 1; i < len(sec.Slots); i++ {
		if sec.Slots[i].X <= sec.Slots[i-1].X {
			t.Errorf("slot %d X = %d not right of slot %d X = %d",
				i, sec.Slots[i].X, i-1, sec.Slots[i-1].X)
		}
	}

	// Chain members stack on their slot's X.
	p := sk.Positions
	if p["sw-f1"].X != sec.Slots[0].X || p["sw-f2"].X != sec.Slots[1].X {
		t.Errorf("feeder switches off their slots: %+v / %+v vs %+v",
			p["sw-f1"], p["sw-f2"], sec.Slots)
	}
	if p["ln-f1"].X != p["sw-f1"].X || p["ld-f1"].X != p["sw-f1"].X {
		t.Error("chain members must share their slot X")
	}
}

func TestBuildSectionWidthGrowsWithChains(t *testing.T) {
	sk, cfg := buildPlant(t)

	for _, bl := range sk.Busbars {
		for _, sec := range bl.Sections {
			if sec.BusID != "bus-sn" {
				continue
			}
			want := cfg.Snap(2*cfg.SectionSidePadding + 3*cfg.BayWidth)
			if sec.Width != want {
				t.Errorf("bus-sn width = %d, want %d", sec.Width, want)
			}
		}
	}
}

func TestBuildSpineIndependentOfFeederCount(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := plantSymbols()
	base := Build(symbols, topo.Assign(symbols), cfg)

	wider := append(plantSymbols(),
		model.Switch{Common: model.Common{SymbolID: "sw-f4"}, FromNode: "n-sn", ToNode: "n-f4"},
	)
	grown := Build(wider, topo.Assign(wider), cfg)

	if grown.SpineX != base.SpineX {
		t.Fatalf("spine moved from %d to %d after adding a feeder", base.SpineX, grown.SpineX)
	}
	for _, id := range []string{"src-grid", "sw-grid", "bus-wn", "tr-main"} {
		if grown.Positions[id] != base.Positions[id] {
			t.Errorf("%s moved from %+v to %+v", id, base.Positions[id], grown.Positions[id])
		}
	}
	// Existing slots keep their X; the new feeder appends rightward.
	for _, id := range []string{"sw-f1", "sw-f2", "sw-f3"} {
		if grown.Positions[id] != base.Positions[id] {
			t.Errorf("%s moved from %+v to %+v", id, base.Positions[id], grown.Positions[id])
		}
	}
	if grown.Positions["sw-f4"].X <= grown.Positions["sw-f3"].X {
		t.Errorf("sw-f4 at x=%d, want right of sw-f3 at x=%d",
			grown.Positions["sw-f4"].X, grown.Positions["sw-f3"].X)
	}
}

func TestBuildCoupledSectionsShareBusbar(t *testing.T) {
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus-a", Name: "15 kV A"}, Node: "n-a", VoltageKV: 15},
		model.Bus{Common: model.Common{SymbolID: "bus-b", Name: "15 kV B"}, Node: "n-b", VoltageKV: 15},
		model.Switch{Common: model.Common{SymbolID: "sw-tie"}, FromNode: "n-a", ToNode: "n-b"},
		model.Switch{Common: model.Common{SymbolID: "sw-f1"}, FromNode: "n-a", ToNode: "n-1"},
		model.Load{Common: model.Common{SymbolID: "ld-f1"}, Node: "n-1"},
	}
	cfg := geom.DefaultConfig()
	sk := Build(symbols, topo.Assign(symbols), cfg)

	if len(sk.Busbars) != 1 {
		t.Fatalf("busbar layouts = %d, want 1 shared", len(sk.Busbars))
	}
	bl := sk.Busbars[0]
	if len(bl.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(bl.Sections))
	}

	p := sk.Positions
	if p["bus-a"].Y != p["bus-b"].Y {
		t.Error("coupled sections must share one Y")
	}
	if p["bus-a"].X >= p["bus-b"].X {
		t.Errorf("sections out of order: bus-a at %d, bus-b at %d", p["bus-a"].X, p["bus-b"].X)
	}
	// The coupler sits between the sections on the busbar Y.
	tie := p["sw-tie"]
	if tie.Y != p["bus-a"].Y {
		t.Errorf("coupler y = %d, want busbar y %d", tie.Y, p["bus-a"].Y)
	}
	if tie.X <= p["bus-a"].X || tie.X >= p["bus-b"].X {
		t.Errorf("coupler x = %d, want between %d and %d", tie.X, p["bus-a"].X, p["bus-b"].X)
	}
}

func TestBuildStationStack(t *testing.T) {
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus-sn", Name: "15 kV"}, Node: "n-sn", VoltageKV: 15},
		model.Switch{Common: model.Common{SymbolID: "sw-st"}, FromNode: "n-sn", ToNode: "n-p"},
		model.TransformerBranch{Common: model.Common{SymbolID: "tr-st"}, PrimaryNode: "n-p", SecondaryNode: "n-s"},
		model.Bus{Common: model.Common{SymbolID: "bus-nn", Name: "0.4 kV"}, Node: "n-s", VoltageKV: 0.4},
		model.Switch{Common: model.Common{SymbolID: "sw-nn"}, FromNode: "n-s", ToNode: "n-l"},
		model.Load{Common: model.Common{SymbolID: "ld-nn"}, Node: "n-l"},
	}
	cfg := geom.DefaultConfig()
	sk := Build(symbols, topo.Assign(symbols), cfg)

	p := sk.Positions
	for _, id := range []string{"sw-st", "tr-st", "bus-nn", "sw-nn", "ld-nn"} {
		if _, ok := p[id]; !ok {
			t.Fatalf("no position for station member %s", id)
		}
	}

	// The station hangs below its feeder switch, anchored on its X.
	if p["tr-st"].X != p["sw-st"].X {
		t.Errorf("station transformer x = %d, want anchor x %d", p["tr-st"].X, p["sw-st"].X)
	}
	order := []string{"sw-st", "tr-st", "bus-nn", "sw-nn", "ld-nn"}
	for i := 1; i < len(order); i++ {
		if p[order[i-1]].Y >= p[order[i]].Y {
			t.Errorf("%s (y=%d) should sit above %s (y=%d)",
				order[i-1], p[order[i-1]].Y, order[i], p[order[i]].Y)
		}
	}

	// Station buses are not drawn as main busbar layouts.
	for _, bl := range sk.Busbars {
		for _, sec := range bl.Sections {
			if sec.BusID == "bus-nn" {
				t.Error("station bus must not appear in the busbar layouts")
			}
		}
	}
}

func TestBuildQuarantinesDisconnected(t *testing.T) {
	symbols := append(plantSymbols(),
		model.Load{Common: model.Common{SymbolID: "ld-orphan"}, Node: "n-nowhere"},
	)
	cfg := geom.DefaultConfig()
	sk := Build(symbols, topo.Assign(symbols), cfg)

	if !slices.Contains(sk.Quarantined, "ld-orphan") {
		t.Fatalf("quarantined = %v, want ld-orphan", sk.Quarantined)
	}
	orphan, ok := sk.Positions["ld-orphan"]
	if !ok {
		t.Fatal("quarantined symbol still needs a position")
	}
	// The quarantine grid sits below every connected symbol.
	for id, p := range sk.Positions {
		if id == "ld-orphan" {
			continue
		}
		if orphan.Y <= p.Y {
			t.Errorf("quarantine y = %d is not below %s at y = %d", orphan.Y, id, p.Y)
			break
		}
	}
}

func TestBuildLeftRightTransposes(t *testing.T) {
	symbols := plantSymbols()
	res := topo.Assign(symbols)

	topDown := Build(symbols, res, geom.DefaultConfig())
	cfg := geom.DefaultConfig()
	cfg.Orientation = geom.LeftRight
	leftRight := Build(symbols, res, cfg)

	for id, p := range topDown.Positions {
		q := leftRight.Positions[id]
		if q.X != p.Y || q.Y != p.X {
			t.Errorf("%s transposed to %+v, want {%d %d}", id, q, p.Y, p.X)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := plantSymbols()

	a := Build(symbols, topo.Assign(symbols), cfg)

	shuffled := make([]model.Symbol, len(symbols))
	copy(shuffled, symbols)
	slices.Reverse(shuffled)
	b := Build(shuffled, topo.Assign(shuffled), cfg)

	if len(a.Positions) != len(b.Positions) {
		t.Fatalf("position counts differ: %d vs %d", len(a.Positions), len(b.Positions))
	}
	for id, p := range a.Positions {
		if q := b.Positions[id]; p != q {
			t.Errorf("%s moved across orders: %+v vs %+v", id, p, q)
		}
	}
}
