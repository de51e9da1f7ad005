// Package observability provides hooks for instrumenting layout runs.
//
// The engine is a pure computation library and must not depend on any
// observability backend. Consumers register hooks at startup to receive
// phase events (role assignment, skeleton build, collision resolution,
// incremental insert) and wire them to whatever metrics or tracing stack
// they run.
//
// # Usage
//
// Register hooks once at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myHooks{})
//	    // ... run layouts
//	}
//
// The engine calls hooks around each phase:
//
//	observability.Engine().OnPhaseStart(ctx, observability.PhaseAssign, n)
//	// ... assign roles ...
//	observability.Engine().OnPhaseComplete(ctx, observability.PhaseAssign, n, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// Phase names one engine stage.
type Phase string

// Engine phases in execution order.
const (
	PhaseAssign    Phase = "assign"
	PhaseSkeleton  Phase = "skeleton"
	PhaseCollision Phase = "collision"
	PhaseInsert    Phase = "insert"
)

// EngineHooks receives events from layout engine runs.
type EngineHooks interface {
	// OnRunStart records the start of a full layout run over n symbols.
	OnRunStart(ctx context.Context, n int)

	// OnRunComplete records the end of a full layout run.
	OnRunComplete(ctx context.Context, n int, duration time.Duration)

	// OnPhaseStart records the start of one engine phase.
	OnPhaseStart(ctx context.Context, phase Phase, n int)

	// OnPhaseComplete records the end of one engine phase.
	OnPhaseComplete(ctx context.Context, phase Phase, n int, duration time.Duration)
}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRunStart(context.Context, int)                            {}
func (NoopEngineHooks) OnRunComplete(context.Context, int, time.Duration)          {}
func (NoopEngineHooks) OnPhaseStart(context.Context, Phase, int)                   {}
func (NoopEngineHooks) OnPhaseComplete(context.Context, Phase, int, time.Duration) {}

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any layout runs.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Reset restores the no-op default hooks.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
}
