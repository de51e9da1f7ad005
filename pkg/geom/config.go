package geom

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Orientation selects the main axis of supply-to-load flow.
type Orientation string

// Supported orientations.
const (
	// TopDown draws supply at the top and loads below (the default).
	TopDown Orientation = "top-down"
	// LeftRight transposes the diagram so flow runs left to right.
	LeftRight Orientation = "left-right"
)

// SizeBox is a per-symbol-type bounding box dimension pair.
type SizeBox struct {
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
}

// Config holds every geometric constant used by the engine. All fields are
// named numeric values; nothing in the engine reads module-level state.
// Use [DefaultConfig] for the stock ETAP-style values and [LoadConfig] to
// override individual fields from a TOML file.
type Config struct {
	// Orientation of the main flow axis.
	Orientation Orientation `toml:"orientation" validate:"oneof=top-down left-right"`

	// GridSize is the snap raster in pixels. Every output coordinate is a
	// multiple of this value.
	GridSize int `toml:"grid_size" validate:"gt=0"`

	// BayWidth is the lateral pitch between adjacent feeder slots.
	BayWidth float64 `toml:"bay_width" validate:"gt=0"`

	// SectionSidePadding is the slack between a section edge and its
	// outermost slot.
	SectionSidePadding float64 `toml:"section_side_padding" validate:"gte=0"`

	// SectionGap separates adjacent sections of one coupled busbar.
	SectionGap float64 `toml:"section_gap" validate:"gte=0"`

	// MinBusbarWidth is the floor for a section's drawn width, so that a
	// busbar with no feeders still reads as a bar.
	MinBusbarWidth float64 `toml:"min_busbar_width" validate:"gt=0"`

	// SymbolSpacing is the lateral spacing between same-layer symbols that
	// are laid out symmetrically around the spine.
	SymbolSpacing float64 `toml:"symbol_spacing" validate:"gt=0"`

	// SpineMargin is the extra lateral room added when sizing the spine X
	// from the widest busbar.
	SpineMargin float64 `toml:"spine_margin" validate:"gte=0"`

	// LayerSpacing is the vertical distance between consecutive canonical
	// layers; layer L_n sits at LayerTop + n*LayerSpacing.
	LayerSpacing float64 `toml:"layer_spacing" validate:"gt=0"`

	// LayerTop is the Y offset of layer L0.
	LayerTop float64 `toml:"layer_top" validate:"gte=0"`

	// ChainHop is the default vertical advance per element when stacking a
	// feeder chain below its slot.
	ChainHop float64 `toml:"chain_hop" validate:"gt=0"`

	// BranchHop is the vertical advance used for line and transformer
	// branches inside a chain, which draw taller than switchgear.
	BranchHop float64 `toml:"branch_hop" validate:"gt=0"`

	// StationOffsetX shifts a local sub-station stack sideways off the
	// spine so it does not overlay the main feeder field.
	StationOffsetX float64 `toml:"station_offset_x" validate:"gt=0"`

	// StationBusDrop is the vertical distance between a station
	// transformer and its local nN busbar.
	StationBusDrop float64 `toml:"station_bus_drop" validate:"gt=0"`

	// QuarantineGap separates the quarantine zone from the lowest
	// regularly placed symbol.
	QuarantineGap float64 `toml:"quarantine_gap" validate:"gt=0"`

	// QuarantineColumns is the number of columns in the quarantine grid.
	QuarantineColumns int `toml:"quarantine_columns" validate:"gt=0"`

	// Clearance is the margin added around every bounding box during
	// collision detection.
	Clearance float64 `toml:"clearance" validate:"gte=0"`

	// PageMargin is the border required around the diagram extent when
	// validating page-format fit.
	PageMargin float64 `toml:"page_margin" validate:"gte=0"`

	// Boxes are the per-symbol-type bounding box sizes.
	Boxes BoxTable `toml:"boxes"`
}

// BoxTable maps symbol types to bounding box sizes. Default covers any
// type without its own entry.
type BoxTable struct {
	Bus         SizeBox `toml:"bus"`
	Transformer SizeBox `toml:"transformer"`
	Switch      SizeBox `toml:"switch"`
	Line        SizeBox `toml:"line"`
	Source      SizeBox `toml:"source"`
	Load        SizeBox `toml:"load"`
	Default     SizeBox `toml:"default"`
}

// DefaultConfig returns the stock geometry constants. The values follow
// common ETAP-style SLD proportions: 10 px grid, 80 px bays, 80 px layer
// pitch.
func DefaultConfig() Config {
	return Config{
		Orientation:        TopDown,
		GridSize:           10,
		BayWidth:           80,
		SectionSidePadding: 40,
		SectionGap:         60,
		MinBusbarWidth:     160,
		SymbolSpacing:      60,
		SpineMargin:        80,
		LayerSpacing:       80,
		LayerTop:           40,
		ChainHop:           60,
		BranchHop:          80,
		StationOffsetX:     120,
		StationBusDrop:     80,
		QuarantineGap:      160,
		QuarantineColumns:  5,
		Clearance:          4,
		PageMargin:         40,
		Boxes: BoxTable{
			Bus:         SizeBox{Width: 120, Height: 12},
			Transformer: SizeBox{Width: 40, Height: 60},
			Switch:      SizeBox{Width: 24, Height: 24},
			Line:        SizeBox{Width: 12, Height: 60},
			Source:      SizeBox{Width: 36, Height: 36},
			Load:        SizeBox{Width: 28, Height: 28},
			Default:     SizeBox{Width: 30, Height: 30},
		},
	}
}

// Snap rounds v to the nearest multiple of the grid size. Every coordinate
// the engine emits passes through this single function.
func (c Config) Snap(v float64) int {
	return int(math.Round(v/float64(c.GridSize))) * c.GridSize
}

// LayerY returns the Y offset of canonical layer n (0-based).
func (c Config) LayerY(n int) int {
	return c.Snap(c.LayerTop + float64(n)*c.LayerSpacing)
}

// Validate checks that every constant is in range.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("geometry config: %w", err)
	}
	return nil
}

// LoadConfig reads a TOML file of overrides on top of [DefaultConfig] and
// validates the result. Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()
