package engine

import (
	"context"
	"fmt"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// VerifyDeterminism runs the full pipeline twice on identical input and
// compares positions and role assignments. A mismatch means a stage leaked
// iteration-order dependence and is reported as an error naming the first
// divergent symbol.
//
// This is a self-check for callers and tests; the engine does not assert
// determinism at runtime.
func VerifyDeterminism(ctx context.Context, symbols []model.Symbol, cfg geom.Config) error {
	first, err := Layout(ctx, symbols, cfg)
	if err != nil {
		return err
	}
	second, err := Layout(ctx, symbols, cfg)
	if err != nil {
		return err
	}

	if len(first.Positions) != len(second.Positions) {
		return fmt.Errorf("determinism check: position count %d != %d", len(first.Positions), len(second.Positions))
	}
	for id, p := range first.Positions {
		q, ok := second.Positions[id]
		if !ok {
			return fmt.Errorf("determinism check: symbol %s placed in first run only", id)
		}
		if p != q {
			return fmt.Errorf("determinism check: symbol %s moved between runs: %v != %v", id, p, q)
		}
	}

	if len(first.Assignments) != len(second.Assignments) {
		return fmt.Errorf("determinism check: assignment count %d != %d", len(first.Assignments), len(second.Assignments))
	}
	for id, a := range first.Assignments {
		b, ok := second.Assignments[id]
		if !ok {
			return fmt.Errorf("determinism check: symbol %s assigned in first run only", id)
		}
		if a != b {
			return fmt.Errorf("determinism check: symbol %s reclassified between runs: %+v != %+v", id, a, b)
		}
	}
	return nil
}
