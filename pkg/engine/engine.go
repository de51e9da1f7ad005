// Package engine wires the layout phases into one entry point.
//
// [Layout] runs role assignment, skeleton construction and collision
// resolution in order, producing positions, assignments, the skeleton, a
// collision report and a diagnostics record. The call is synchronous,
// allocation-only and free of shared state: it is safe to invoke from any
// number of goroutines because every run owns its working set.
//
// Inputs are treated as read-only. The engine snapshots the symbol slice
// on entry, so callers may reuse or mutate their own slice immediately
// after the call.
package engine

import (
	"context"
	"time"

	"github.com/mlorenc/sldgrid/pkg/collision"
	sgerrors "github.com/mlorenc/sldgrid/pkg/errors"
	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/observability"
	"github.com/mlorenc/sldgrid/pkg/skeleton"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// Result is the full output of one layout run. The consuming editor owns
// the maps and slices; the engine never retains references to them.
type Result struct {
	// Positions is the authoritative symbol position map after collision
	// resolution.
	Positions map[string]geom.Point

	// Assignments maps each surviving symbol to its topological
	// classification.
	Assignments map[string]topo.Assignment

	// Skeleton is the geometric frame the positions were derived from,
	// with pre-resolution coordinates.
	Skeleton *skeleton.Skeleton

	// Collisions is the detection report after resolution. A non-empty
	// report means resolution hit its pass bound.
	Collisions collision.Report

	// Diagnostics carries counts, timings and the IDs the lenient error
	// policy routed to fallbacks.
	Diagnostics Diagnostics
}

// Layout computes the full layout of a symbol set.
//
// A nil or empty symbol set short-circuits to an explicit empty result.
// The only returned errors are config validation and model consistency
// failures (duplicate or empty IDs); topological defects never fail the
// run and surface in Diagnostics instead.
func Layout(ctx context.Context, symbols []model.Symbol, cfg geom.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "layout")
	}
	if err := model.Validate(symbols); err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeInvalidModel, err, "layout")
	}
	if len(symbols) == 0 {
		return emptyResult(), nil
	}

	hooks := observability.Engine()
	hooks.OnRunStart(ctx, len(symbols))
	runStart := time.Now()

	snapshot := model.Snapshot(symbols)

	assignStart := time.Now()
	hooks.OnPhaseStart(ctx, observability.PhaseAssign, len(snapshot))
	assigned := topo.Assign(snapshot)
	assignTime := time.Since(assignStart)
	hooks.OnPhaseComplete(ctx, observability.PhaseAssign, len(snapshot), assignTime)

	skStart := time.Now()
	hooks.OnPhaseStart(ctx, observability.PhaseSkeleton, len(assigned.Assignments))
	sk := skeleton.Build(snapshot, assigned, cfg)
	skTime := time.Since(skStart)
	hooks.OnPhaseComplete(ctx, observability.PhaseSkeleton, len(assigned.Assignments), skTime)

	colStart := time.Now()
	hooks.OnPhaseStart(ctx, observability.PhaseCollision, len(sk.Positions))
	resolved := collision.Resolve(snapshot, sk.Positions, cfg)
	report := collision.Detect(snapshot, resolved, cfg)
	colTime := time.Since(colStart)
	hooks.OnPhaseComplete(ctx, observability.PhaseCollision, len(sk.Positions), colTime)

	res := &Result{
		Positions:   resolved,
		Assignments: assigned.Assignments,
		Skeleton:    sk,
		Collisions:  report,
	}
	res.Diagnostics = buildDiagnostics(snapshot, assigned, sk, report, phaseTimes{
		Assign:    assignTime,
		Skeleton:  skTime,
		Collision: colTime,
		Total:     time.Since(runStart),
	})

	hooks.OnRunComplete(ctx, len(symbols), time.Since(runStart))
	return res, nil
}

// emptyResult is the explicit zero-symbol result.
func emptyResult() *Result {
	return &Result{
		Positions:   map[string]geom.Point{},
		Assignments: map[string]topo.Assignment{},
		Skeleton:    &skeleton.Skeleton{Positions: map[string]geom.Point{}},
		Diagnostics: newDiagnostics(),
	}
}
