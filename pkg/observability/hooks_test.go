package observability

import (
	"context"
	"testing"
	"time"
)

// testEngineHooks records which events fired.
type testEngineHooks struct {
	runStarts   int
	phaseStarts []Phase
}

func (h *testEngineHooks) OnRunStart(context.Context, int)                   { h.runStarts++ }
func (h *testEngineHooks) OnRunComplete(context.Context, int, time.Duration) {}
func (h *testEngineHooks) OnPhaseStart(_ context.Context, p Phase, _ int) {
	h.phaseStarts = append(h.phaseStarts, p)
}
func (h *testEngineHooks) OnPhaseComplete(context.Context, Phase, int, time.Duration) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	n := NoopEngineHooks{}
	n.OnRunStart(ctx, 10)
	n.OnPhaseStart(ctx, PhaseAssign, 10)
	n.OnPhaseComplete(ctx, PhaseAssign, 10, time.Second)
	n.OnRunComplete(ctx, 10, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	if Engine() != custom {
		t.Error("SetEngineHooks should set custom hooks")
	}

	Engine().OnRunStart(context.Background(), 5)
	Engine().OnPhaseStart(context.Background(), PhaseSkeleton, 5)
	if custom.runStarts != 1 {
		t.Errorf("runStarts = %d, want 1", custom.runStarts)
	}
	if len(custom.phaseStarts) != 1 || custom.phaseStarts[0] != PhaseSkeleton {
		t.Errorf("phaseStarts = %v, want [skeleton]", custom.phaseStarts)
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should keep the previous hooks")
	}
}
