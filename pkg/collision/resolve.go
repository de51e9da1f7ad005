package collision

import (
	"math"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// maxResolvePasses bounds the iterative resolution loop. At SLD scale a
// handful of passes settles every practical network; the bound guards
// against pathological zero-clearance inputs.
const maxResolvePasses = 20

// Resolve returns a copy of the position map with overlaps resolved by
// priority-ordered vertical shifts.
//
// Each pass recomputes all overlaps, picks a mover per pair and shifts it
// downward by the vertical overlap rounded up to the grid. X coordinates
// are never altered. The loop stops early on the first clean pass.
func Resolve(symbols []model.Symbol, positions map[string]geom.Point, cfg geom.Config) map[string]geom.Point {
	out := make(map[string]geom.Point, len(positions))
	for id, p := range positions {
		out[id] = p
	}

	byID := make(map[string]model.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID()] = s
	}

	for pass := 0; pass < maxResolvePasses; pass++ {
		report := Detect(symbols, out, cfg)
		if !report.HasCollisions {
			break
		}
		for _, ov := range report.Overlaps {
			m := mover(byID[ov.A], byID[ov.B])
			shift := ceilToGrid(ov.DY, cfg.GridSize)
			p := out[m]
			out[m] = geom.Point{X: p.X, Y: p.Y + shift}
		}
	}
	return out
}

// ceilToGrid rounds v up to the next multiple of grid, with a floor of one
// grid step so every shift makes progress.
func ceilToGrid(v float64, grid int) int {
	steps := int(math.Ceil(v / float64(grid)))
	if steps < 1 {
		steps = 1
	}
	return steps * grid
}
