// Package topo classifies single-line-diagram symbols into topological
// roles and canonical layers using adjacency alone.
//
// The assigner is the first stage of the layout pipeline. It never reads
// caller-supplied order: all iteration is anchored on symbols sorted by ID,
// which is the determinism anchor every later stage inherits.
//
// # Pipeline
//
// [Assign] runs the classification steps in fixed order:
//
//  1. Sort symbols by ID.
//  2. Filter point-of-common-coupling boundary nodes.
//  3. Build undirected adjacency from node sharing.
//  4. Classify bus voltage levels (explicit kV, transformer overrides,
//     name heuristics).
//  5. Detect section couplers (busbar-to-busbar switches).
//  6. Detect feeder chains per busbar.
//  7. Detect local SN/nN sub-stations.
//  8. Assign exactly one role and canonical layer per surviving symbol.
//
// A symbol that cannot be typed falls through to [RoleInline] with its
// type's default layer; it is never an error.
package topo

import "slices"

// Role is the topological role of one symbol.
type Role string

// Topological roles.
const (
	// RolePowerSource marks supply infeeds (grid connections, generators).
	RolePowerSource Role = "POWER_SOURCE"
	// RoleBusbar marks a single-section busbar.
	RoleBusbar Role = "BUSBAR"
	// RoleSection marks a busbar paired with a partner via a coupler
	// switch; the pair shares one logical busbar.
	RoleSection Role = "SECTION"
	// RoleFeeder marks the head of a feeder chain (its switch, or the
	// branch when no switch exists).
	RoleFeeder Role = "FEEDER"
	// RoleAxial marks elements drawn on the main supply axis: source
	// switchgear and the main transformer.
	RoleAxial Role = "AXIAL_ELEMENT"
	// RoleInline marks every remaining in-chain element.
	RoleInline Role = "INLINE_ELEMENT"
)

// VoltageLevel is the detected voltage band of a symbol.
type VoltageLevel string

// Voltage levels. WN is high voltage (>=110 kV), SN medium voltage, NN low
// voltage (<1 kV).
const (
	VoltageWN      VoltageLevel = "WN"
	VoltageSN      VoltageLevel = "SN"
	VoltageNN      VoltageLevel = "nN"
	VoltageUnknown VoltageLevel = "unknown"
)

// Layer is one of the 13 canonical vertical bands L0..L12. Lower values
// draw closer to the supply.
type Layer int

// Canonical layers in draw order.
const (
	LayerSource          Layer = iota // L0: power sources
	LayerSourceSwitch                 // L1: source switchgear
	LayerWNBus                        // L2: WN busbar
	LayerMainTransformer              // L3: main WN/SN transformer
	LayerSNBus                        // L4: SN busbar and sections
	LayerFeederSwitch                 // L5: feeder switches
	LayerFeederBranch                 // L6: feeder branches and loads
	LayerStationSwitch                // L7: station-side SN switch
	LayerStationTrafo                 // L8: station SN/nN transformer
	LayerNNBus                        // L9: station nN busbar
	LayerNNSwitch                     // L10: station nN switchgear
	LayerNNLoad                       // L11: station nN loads and branches
	LayerNNSource                     // L12: station auxiliary sources

	// LayerCount is the number of canonical layers.
	LayerCount = 13
)

// Assignment is the classification of one symbol. Exactly one assignment
// exists per surviving (non-filtered) symbol.
type Assignment struct {
	Role    Role
	Voltage VoltageLevel
	Layer   Layer

	// ParentBusbar is the partner busbar for RoleSection, or the owning
	// busbar for feeder-chain members. Empty otherwise.
	ParentBusbar string

	// GroupKey groups symbols that are laid out together: the logical
	// busbar key for sections and couplers, the chain key for feeder
	// members, the station transformer ID for station members.
	GroupKey string
}

// FeederChain is one ordered busbar departure: optional switch, optional
// branch, then loads and sources, derived from adjacency and never from
// stored order.
type FeederChain struct {
	// Busbar is the owning busbar symbol ID.
	Busbar string
	// SwitchID is the chain's switch, empty for direct branches.
	SwitchID string
	// BranchID is the chain's line or transformer branch, if any.
	BranchID string
	// Members lists all chain symbol IDs in stacking order.
	Members []string
}

// Key returns the deterministic sort key of the chain: the switch ID when
// present, otherwise the branch ID.
func (c FeederChain) Key() string {
	if c.SwitchID != "" {
		return c.SwitchID
	}
	return c.BranchID
}

// Station is one detected local SN/nN sub-station.
type Station struct {
	// TransformerID is the SN/nN transformer anchoring the station; it
	// doubles as the station group key.
	TransformerID string
	// BusID is the station's local nN busbar, if present.
	BusID string
	// MemberIDs lists every symbol in the station, sorted.
	MemberIDs []string
}

// Result is the full output of role assignment.
type Result struct {
	// Assignments maps each surviving symbol ID to its classification.
	Assignments map[string]Assignment

	// FilteredIDs lists boundary (point of common coupling) symbols that
	// were removed before classification, sorted.
	FilteredIDs []string

	// Stations lists detected sub-stations sorted by transformer ID.
	Stations []Station

	// Chains maps each busbar ID to its feeder chains, sorted by chain
	// key.
	Chains map[string][]FeederChain

	// Neighbors maps each surviving symbol ID to its adjacent symbol IDs,
	// sorted. Used by downstream fallback placement.
	Neighbors map[string][]string
}

// StationMemberIDs returns the union of all station member IDs, sorted.
func (r *Result) StationMemberIDs() []string {
	var ids []string
	for _, st := range r.Stations {
		ids = append(ids, st.MemberIDs...)
	}
	slices.Sort(ids)
	return ids
}
