package engine

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mlorenc/sldgrid/pkg/collision"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/skeleton"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// phaseTimes carries per-phase wall durations.
type phaseTimes struct {
	Assign    time.Duration
	Skeleton  time.Duration
	Collision time.Duration
	Total     time.Duration
}

// Diagnostics is the structured observability record of one run. It is
// data for the caller to log or render; the engine itself has no message
// surface.
type Diagnostics struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	SymbolCount   int
	PlacedCount   int
	CollisionLeft int

	// FilteredIDs are the boundary (point of common coupling) symbols
	// removed before classification, sorted.
	FilteredIDs []string

	// UnassignedIDs are surviving symbols that ended up without a role
	// assignment. Always empty under the current assigner, which falls
	// back to inline roles; populated only if a future classifier
	// regresses, making the invariant observable.
	UnassignedIDs []string

	// QuarantinedIDs are symbols placed in the quarantine grid, sorted.
	QuarantinedIDs []string

	// StationGroups maps each station key to its sorted member IDs.
	StationGroups map[string][]string

	AssignTime    time.Duration
	SkeletonTime  time.Duration
	CollisionTime time.Duration
	TotalTime     time.Duration
}

func newDiagnostics() Diagnostics {
	return Diagnostics{RunID: uuid.NewString(), StationGroups: map[string][]string{}}
}

func buildDiagnostics(symbols []model.Symbol, assigned *topo.Result, sk *skeleton.Skeleton, report collision.Report, times phaseTimes) Diagnostics {
	d := newDiagnostics()
	d.SymbolCount = len(symbols)
	d.PlacedCount = len(sk.Positions)
	d.CollisionLeft = len(report.Overlaps)
	d.FilteredIDs = assigned.FilteredIDs
	d.QuarantinedIDs = sk.Quarantined
	d.AssignTime = times.Assign
	d.SkeletonTime = times.Skeleton
	d.CollisionTime = times.Collision
	d.TotalTime = times.Total

	filtered := make(map[string]bool, len(assigned.FilteredIDs))
	for _, id := range assigned.FilteredIDs {
		filtered[id] = true
	}
	for _, s := range symbols {
		if filtered[s.ID()] {
			continue
		}
		if _, ok := assigned.Assignments[s.ID()]; !ok {
			d.UnassignedIDs = append(d.UnassignedIDs, s.ID())
		}
	}
	slices.Sort(d.UnassignedIDs)

	for _, st := range assigned.Stations {
		members := make([]string, len(st.MemberIDs))
		copy(members, st.MemberIDs)
		d.StationGroups[st.TransformerID] = members
	}
	return d
}
