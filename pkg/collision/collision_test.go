package collision

import (
	"testing"

	sgerrors "github.com/mlorenc/sldgrid/pkg/errors"
	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

func TestDetectOverlappingPair(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Switch{Common: model.Common{SymbolID: "sw-a"}, FromNode: "n-1", ToNode: "n-2"},
		model.Switch{Common: model.Common{SymbolID: "sw-b"}, FromNode: "n-2", ToNode: "n-3"},
	}
	positions := map[string]geom.Point{
		"sw-a": {X: 100, Y: 100},
		"sw-b": {X: 110, Y: 100},
	}

	report := Detect(symbols, positions, cfg)
	if !report.HasCollisions || len(report.Overlaps) != 1 {
		t.Fatalf("overlaps = %v, want exactly one", report.Overlaps)
	}
	ov := report.Overlaps[0]
	if ov.A != "sw-a" || ov.B != "sw-b" {
		t.Errorf("pair = %s/%s, want sw-a/sw-b", ov.A, ov.B)
	}
	if ov.DX <= 0 || ov.DY <= 0 {
		t.Errorf("penetration = %v/%v, want positive on both axes", ov.DX, ov.DY)
	}
}

func TestDetectSeparatedPair(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Load{Common: model.Common{SymbolID: "ld-a"}, Node: "n-1"},
		model.Load{Common: model.Common{SymbolID: "ld-b"}, Node: "n-2"},
	}
	positions := map[string]geom.Point{
		"ld-a": {X: 0, Y: 0},
		"ld-b": {X: 200, Y: 0},
	}
	if report := Detect(symbols, positions, cfg); report.HasCollisions {
		t.Errorf("overlaps = %v, want none", report.Overlaps)
	}
}

func TestDetectClearanceCounts(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Load{Common: model.Common{SymbolID: "ld-a"}, Node: "n-1"},
		model.Load{Common: model.Common{SymbolID: "ld-b"}, Node: "n-2"},
	}
	// Load boxes are 28 wide: at 30 px apart the raw boxes clear each
	// other, but the clearance margin still makes the pair collide.
	positions := map[string]geom.Point{
		"ld-a": {X: 0, Y: 0},
		"ld-b": {X: 30, Y: 0},
	}
	if report := Detect(symbols, positions, cfg); !report.HasCollisions {
		t.Error("expected clearance violation to count as overlap")
	}
}

func TestDetectExemptsBusPairs(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus-a"}, Node: "n-1"},
		model.Bus{Common: model.Common{SymbolID: "bus-b"}, Node: "n-2"},
	}
	positions := map[string]geom.Point{
		"bus-a": {X: 100, Y: 100},
		"bus-b": {X: 120, Y: 100},
	}
	if report := Detect(symbols, positions, cfg); report.HasCollisions {
		t.Errorf("bus pair reported: %v", report.Overlaps)
	}
}

func TestResolveClearsOverlaps(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus"}, Node: "n-1"},
		model.Switch{Common: model.Common{SymbolID: "sw-a"}, FromNode: "n-1", ToNode: "n-2"},
		model.Load{Common: model.Common{SymbolID: "ld-a"}, Node: "n-2"},
	}
	positions := map[string]geom.Point{
		"bus":  {X: 100, Y: 100},
		"sw-a": {X: 100, Y: 100},
		"ld-a": {X: 100, Y: 110},
	}

	resolved := Resolve(symbols, positions, cfg)

	if report := Detect(symbols, resolved, cfg); report.HasCollisions {
		t.Fatalf("overlaps after resolve: %v", report.Overlaps)
	}
	// The original map must stay untouched.
	if positions["sw-a"] != (geom.Point{X: 100, Y: 100}) {
		t.Error("Resolve mutated its input map")
	}
}

func TestResolveMovesLowerPriorityDown(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus"}, Node: "n-1"},
		model.Switch{Common: model.Common{SymbolID: "sw-a"}, FromNode: "n-1", ToNode: "n-2"},
	}
	positions := map[string]geom.Point{
		"bus":  {X: 100, Y: 100},
		"sw-a": {X: 100, Y: 100},
	}

	resolved := Resolve(symbols, positions, cfg)

	if resolved["bus"] != positions["bus"] {
		t.Errorf("bus moved to %+v; busbars must stay put", resolved["bus"])
	}
	if resolved["sw-a"].Y <= positions["sw-a"].Y {
		t.Errorf("switch y = %d, want shifted down", resolved["sw-a"].Y)
	}
	if resolved["sw-a"].X != positions["sw-a"].X {
		t.Error("resolution must never change X")
	}
}

func TestResolveTieBreaksOnID(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Load{Common: model.Common{SymbolID: "ld-a"}, Node: "n-1"},
		model.Load{Common: model.Common{SymbolID: "ld-b"}, Node: "n-2"},
	}
	positions := map[string]geom.Point{
		"ld-a": {X: 100, Y: 100},
		"ld-b": {X: 100, Y: 100},
	}

	resolved := Resolve(symbols, positions, cfg)

	// Same type: the lexically larger ID moves.
	if resolved["ld-a"] != positions["ld-a"] {
		t.Errorf("ld-a moved to %+v, want stationary", resolved["ld-a"])
	}
	if resolved["ld-b"].Y <= positions["ld-b"].Y {
		t.Errorf("ld-b y = %d, want shifted down", resolved["ld-b"].Y)
	}
}

func TestResolveShiftsAreGridMultiples(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Switch{Common: model.Common{SymbolID: "sw-a"}, FromNode: "n-1", ToNode: "n-2"},
		model.Switch{Common: model.Common{SymbolID: "sw-b"}, FromNode: "n-2", ToNode: "n-3"},
	}
	positions := map[string]geom.Point{
		"sw-a": {X: 100, Y: 100},
		"sw-b": {X: 100, Y: 110},
	}

	resolved := Resolve(symbols, positions, cfg)
	for id, p := range resolved {
		if p.Y%cfg.GridSize != 0 {
			t.Errorf("%s y = %d is off the grid", id, p.Y)
		}
	}
}

func TestCeilToGrid(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0, 10},
		{1, 10},
		{10, 10},
		{10.1, 20},
		{25, 30},
	}
	for _, tt := range tests {
		if got := ceilToGrid(tt.v, 10); got != tt.want {
			t.Errorf("ceilToGrid(%v, 10) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestValidatePageFit(t *testing.T) {
	cfg := geom.DefaultConfig()
	symbols := []model.Symbol{
		model.Bus{Common: model.Common{SymbolID: "bus"}, Node: "n-1"},
		model.Load{Common: model.Common{SymbolID: "ld"}, Node: "n-2"},
	}
	positions := map[string]geom.Point{
		"bus": {X: 200, Y: 100},
		"ld":  {X: 200, Y: 300},
	}

	fit, err := ValidatePageFit(symbols, positions, cfg, geom.A4Portrait)
	if err != nil {
		t.Fatalf("ValidatePageFit() error: %v", err)
	}
	if !fit.Fits {
		t.Errorf("small diagram should fit a4-portrait: %+v", fit)
	}

	// Stretch the layout beyond the page height.
	positions["ld"] = geom.Point{X: 200, Y: 2000}
	fit, err = ValidatePageFit(symbols, positions, cfg, geom.A4Portrait)
	if err != nil {
		t.Fatalf("ValidatePageFit() error: %v", err)
	}
	if fit.Fits {
		t.Errorf("tall diagram must overflow a4-portrait: %+v", fit)
	}
}

func TestValidatePageFitUnknownFormat(t *testing.T) {
	_, err := ValidatePageFit(nil, nil, geom.DefaultConfig(), "tabloid")
	if err == nil {
		t.Fatal("expected error for unknown page format")
	}
	if !sgerrors.Is(err, sgerrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestValidatePageFitEmptyLayout(t *testing.T) {
	fit, err := ValidatePageFit(nil, map[string]geom.Point{}, geom.DefaultConfig(), geom.A4Portrait)
	if err != nil {
		t.Fatalf("ValidatePageFit() error: %v", err)
	}
	if !fit.Fits {
		t.Error("empty layout trivially fits")
	}
}
