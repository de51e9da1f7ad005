// Package model defines the read-only symbol model consumed by the layout
// engine.
//
// A Symbol describes one drawable element of a medium-voltage single-line
// diagram together with its connectivity. The set of symbol kinds is closed:
// Bus, Source, Load, Switch, LineBranch and TransformerBranch. Consumers
// dispatch over the concrete types with an exhaustive type switch rather
// than inspecting string tags.
//
// Symbols are input to the engine and are never mutated by it. The engine
// takes a deep snapshot on entry (see [Snapshot]) so that a caller mutating
// its own slice after the call cannot corrupt a layout in progress.
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySymbolID is returned by [Validate] when a symbol has an
	// empty identifier. Every symbol must carry a stable, unique ID.
	ErrEmptySymbolID = errors.New("symbol ID must not be empty")

	// ErrDuplicateSymbolID is returned by [Validate] when two symbols
	// share the same identifier.
	ErrDuplicateSymbolID = errors.New("duplicate symbol ID")

	// ErrDanglingConnection is returned by [Validate] when a switch or
	// branch is missing one of its node references.
	ErrDanglingConnection = errors.New("switch or branch is missing a node reference")
)

// Symbol is one element of the single-line diagram. Implementations are the
// six concrete kinds in this package; the interface is sealed by kind().
type Symbol interface {
	// ID returns the stable symbol identifier. IDs order all engine
	// iteration, so they must be unique within one model.
	ID() string

	// ElementID returns the identifier of the owning network element in
	// the source model. Several symbols may share one element.
	ElementID() string

	// DisplayName returns the human-readable label. May be empty.
	DisplayName() string

	// Nodes returns the connectivity of the symbol: one node ID for a
	// bus, source or load, two (from, to) for a switch or branch.
	Nodes() []string

	kind() string
}

// Common carries the fields shared by every symbol kind.
type Common struct {
	SymbolID string
	Element  string
	Name     string
}

// ID implements [Symbol].
func (c Common) ID() string { return c.SymbolID }

// ElementID implements [Symbol].
func (c Common) ElementID() string { return c.Element }

// DisplayName implements [Symbol].
func (c Common) DisplayName() string { return c.Name }

// Bus is a busbar node. VoltageKV is the declared nominal voltage in kV;
// zero means undeclared, in which case the engine falls back to name
// heuristics.
type Bus struct {
	Common
	Node      string
	VoltageKV float64
	// DeclaredType is the free-form element type string from the source
	// model, used only for boundary-node filtering.
	DeclaredType string
}

// Nodes implements [Symbol].
func (b Bus) Nodes() []string { return []string{b.Node} }

func (Bus) kind() string { return "bus" }

// Source is a supply infeed (grid connection or generator) attached to a
// single node.
type Source struct {
	Common
	Node string
}

// Nodes implements [Symbol].
func (s Source) Nodes() []string { return []string{s.Node} }

func (Source) kind() string { return "source" }

// Load is a consumer attached to a single node.
type Load struct {
	Common
	Node string
}

// Nodes implements [Symbol].
func (l Load) Nodes() []string { return []string{l.Node} }

func (Load) kind() string { return "load" }

// Switch is a two-terminal switching device. A switch whose both endpoints
// are busbars acts as a section coupler.
type Switch struct {
	Common
	FromNode string
	ToNode   string
	Closed   bool
}

// Nodes implements [Symbol].
func (s Switch) Nodes() []string { return []string{s.FromNode, s.ToNode} }

func (Switch) kind() string { return "switch" }

// LineBranch is a cable or overhead-line segment between two nodes.
type LineBranch struct {
	Common
	FromNode string
	ToNode   string
}

// Nodes implements [Symbol].
func (l LineBranch) Nodes() []string { return []string{l.FromNode, l.ToNode} }

func (LineBranch) kind() string { return "line" }

// TransformerBranch is a two-winding transformer. PrimaryNode is the
// higher-voltage side; the engine uses the distinction to force voltage
// levels on the connected buses.
type TransformerBranch struct {
	Common
	PrimaryNode   string
	SecondaryNode string
}

// Nodes implements [Symbol].
func (t TransformerBranch) Nodes() []string {
	return []string{t.PrimaryNode, t.SecondaryNode}
}

func (TransformerBranch) kind() string { return "transformer" }

// Validate checks structural consistency of a symbol set: non-empty unique
// IDs and complete node references on two-terminal symbols. It does not
// check topological plausibility; a disconnected model is valid input and
// is handled by the engine's quarantine placement.
func Validate(symbols []Symbol) error {
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if s.ID() == "" {
			return fmt.Errorf("%w (kind %s)", ErrEmptySymbolID, s.kind())
		}
		if _, dup := seen[s.ID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbolID, s.ID())
		}
		seen[s.ID()] = struct{}{}

		nodes := s.Nodes()
		if len(nodes) == 2 && (nodes[0] == "" || nodes[1] == "") {
			return fmt.Errorf("%w: %s", ErrDanglingConnection, s.ID())
		}
	}
	return nil
}
