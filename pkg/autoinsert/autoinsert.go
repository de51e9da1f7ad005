// Package autoinsert recomputes a layout after a single model delta and
// reports exactly which symbols moved.
//
// The engine makes no attempt to patch geometry in place: the skeleton is
// cheap and purely derived, so every delta rebuilds it in full and the
// result is diffed against the prior positions per symbol ID. What the
// package guarantees is the stability contract: a symbol whose
// topological neighborhood is untouched by the delta reports an identical
// position before and after.
package autoinsert

import (
	"context"
	"slices"
	"time"

	"github.com/mlorenc/sldgrid/pkg/engine"
	sgerrors "github.com/mlorenc/sldgrid/pkg/errors"
	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/observability"
	"github.com/mlorenc/sldgrid/pkg/skeleton"
)

// OpKind is the kind of model delta.
type OpKind string

// Supported delta kinds.
const (
	OpAdd    OpKind = "ADD"
	OpRemove OpKind = "REMOVE"
	OpModify OpKind = "MODIFY"
)

// Op is one model delta. Symbol carries the new element for ADD and the
// replacement for MODIFY; SymbolID names the target for REMOVE and MODIFY.
type Op struct {
	Kind     OpKind
	Symbol   model.Symbol
	SymbolID string
}

// Result is the outcome of one incremental run. Callers apply
// UpdatedPositions wholesale: it already contains the union of stable and
// changed entries.
type Result struct {
	UpdatedPositions map[string]geom.Point

	// ChangedIDs lists symbols whose position differs from the prior run
	// (including fresh symbols), sorted.
	ChangedIDs []string

	// StableIDs lists symbols whose position is identical to the prior
	// run, sorted.
	StableIDs []string

	// Structural reports whether the delta forced a full rebuild scope
	// (busbar, coupler or transformer change, or any MODIFY).
	Structural bool

	// AffectedBusbar names the busbar whose section geometry the delta
	// touched, when the change was not structural.
	AffectedBusbar string

	// Skeleton is the rebuilt geometric frame.
	Skeleton *skeleton.Skeleton
}

// Apply computes the minimal-report relayout for one delta.
//
// The new symbol set is derived from the operation, roles are re-assigned
// over the full set and the skeleton is rebuilt; positions outside the
// affected scope come out identical because both runs are pure functions
// of topology.
func Apply(ctx context.Context, prev []model.Symbol, prevPositions map[string]geom.Point, op Op, cfg geom.Config) (*Result, error) {
	hooks := observability.Engine()
	hooks.OnPhaseStart(ctx, observability.PhaseInsert, len(prev))
	start := time.Now()

	next, err := applyOp(prev, op)
	if err != nil {
		return nil, err
	}

	full, err := engine.Layout(ctx, next, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		UpdatedPositions: full.Positions,
		Skeleton:         full.Skeleton,
	}
	res.Structural, res.AffectedBusbar = classifyScope(prev, full, op)

	for id, p := range full.Positions {
		if q, ok := prevPositions[id]; ok && q == p {
			res.StableIDs = append(res.StableIDs, id)
		} else {
			res.ChangedIDs = append(res.ChangedIDs, id)
		}
	}
	slices.Sort(res.ChangedIDs)
	slices.Sort(res.StableIDs)

	hooks.OnPhaseComplete(ctx, observability.PhaseInsert, len(next), time.Since(start))
	return res, nil
}

// applyOp derives the new symbol set from the delta.
func applyOp(prev []model.Symbol, op Op) ([]model.Symbol, error) {
	switch op.Kind {
	case OpAdd:
		if op.Symbol == nil {
			return nil, sgerrors.New(sgerrors.ErrCodeInvalidDelta, "ADD requires a symbol")
		}
		for _, s := range prev {
			if s.ID() == op.Symbol.ID() {
				return nil, sgerrors.New(sgerrors.ErrCodeDuplicateSymbol, "symbol %s already exists", s.ID())
			}
		}
		next := make([]model.Symbol, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, op.Symbol), nil

	case OpRemove:
		next := make([]model.Symbol, 0, len(prev))
		found := false
		for _, s := range prev {
			if s.ID() == op.SymbolID {
				found = true
				continue
			}
			next = append(next, s)
		}
		if !found {
			return nil, sgerrors.New(sgerrors.ErrCodeUnknownSymbol, "symbol %s not found", op.SymbolID)
		}
		return next, nil

	case OpModify:
		if op.Symbol == nil {
			return nil, sgerrors.New(sgerrors.ErrCodeInvalidDelta, "MODIFY requires a symbol")
		}
		next := make([]model.Symbol, len(prev))
		found := false
		for i, s := range prev {
			if s.ID() == op.Symbol.ID() || s.ID() == op.SymbolID {
				next[i] = op.Symbol
				found = true
				continue
			}
			next[i] = s
		}
		if !found {
			return nil, sgerrors.New(sgerrors.ErrCodeUnknownSymbol, "symbol %s not found", op.Symbol.ID())
		}
		return next, nil

	default:
		return nil, sgerrors.New(sgerrors.ErrCodeInvalidDelta, "unknown operation %q", op.Kind)
	}
}

// classifyScope decides whether the delta forces full-rebuild scope.
// Busbars, couplers and transformers shape the skeleton frame, so touching
// one is structural; connectivity MODIFY is conservatively structural too.
// A feeder-chain member only marks its owning busbar's section.
func classifyScope(prev []model.Symbol, full *engine.Result, op Op) (structural bool, busbar string) {
	if op.Kind == OpModify {
		return true, ""
	}

	var target model.Symbol
	switch op.Kind {
	case OpAdd:
		target = op.Symbol
	case OpRemove:
		for _, s := range prev {
			if s.ID() == op.SymbolID {
				target = s
				break
			}
		}
	}
	if target == nil {
		return true, ""
	}

	switch target.(type) {
	case model.Bus, model.TransformerBranch:
		return true, ""
	case model.Switch:
		if isCoupler(target, prev) {
			return true, ""
		}
	}

	if a, ok := full.Assignments[target.ID()]; ok && a.ParentBusbar != "" {
		return false, a.ParentBusbar
	}
	// Removed feeder member: attribute the scope to the busbar at either
	// endpoint node, if any.
	if busID := busAt(prev, target); busID != "" {
		return false, busID
	}
	return false, ""
}

// isCoupler reports whether both endpoints of a switch land on busbar
// nodes of the given symbol set.
func isCoupler(sw model.Symbol, symbols []model.Symbol) bool {
	nodes := sw.Nodes()
	if len(nodes) != 2 {
		return false
	}
	return busAtNode(symbols, nodes[0]) != "" && busAtNode(symbols, nodes[1]) != ""
}

// busAt returns a busbar adjacent to any of the symbol's nodes.
func busAt(symbols []model.Symbol, s model.Symbol) string {
	for _, node := range s.Nodes() {
		if id := busAtNode(symbols, node); id != "" {
			return id
		}
	}
	return ""
}

func busAtNode(symbols []model.Symbol, node string) string {
	for _, s := range symbols {
		bus, ok := s.(model.Bus)
		if !ok {
			continue
		}
		if bus.Node == node {
			return bus.ID()
		}
	}
	return ""
}
