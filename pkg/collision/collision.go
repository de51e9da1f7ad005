// Package collision detects and resolves symbol overlaps and validates
// page-format fit for export.
//
// Bounding boxes come from a fixed per-type size table centered on each
// symbol's position. Resolution never touches X: movers shift downward
// only, preserving the slot-column alignment the skeleton established.
package collision

import (
	"slices"
	"strings"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// Overlap is one colliding symbol pair with per-axis overlap magnitudes.
// A is always the lexically smaller ID.
type Overlap struct {
	A, B   string
	DX, DY float64
}

// Report is the deterministic, sorted result of one detection pass.
type Report struct {
	Overlaps      []Overlap
	HasCollisions bool
}

// boxFor returns the bounding box of one symbol from the per-type table.
func boxFor(s model.Symbol, p geom.Point, cfg geom.Config) geom.Box {
	var size geom.SizeBox
	switch s.(type) {
	case model.Bus:
		size = cfg.Boxes.Bus
	case model.TransformerBranch:
		size = cfg.Boxes.Transformer
	case model.Switch:
		size = cfg.Boxes.Switch
	case model.LineBranch:
		size = cfg.Boxes.Line
	case model.Source:
		size = cfg.Boxes.Source
	case model.Load:
		size = cfg.Boxes.Load
	default:
		size = cfg.Boxes.Default
	}
	return geom.BoxAround(p, size.Width, size.Height)
}

// Detect reports every overlapping symbol pair under the configured
// clearance. Bus-versus-bus pairs are exempt: adjacent sectioned busbars
// may legitimately touch. Pairs are emitted in sorted (A, B) order.
func Detect(symbols []model.Symbol, positions map[string]geom.Point, cfg geom.Config) Report {
	byID := make(map[string]model.Symbol, len(symbols))
	var ids []string
	for _, s := range symbols {
		if _, placed := positions[s.ID()]; !placed {
			continue
		}
		byID[s.ID()] = s
		ids = append(ids, s.ID())
	}
	slices.Sort(ids)

	var report Report
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := byID[ids[i]], byID[ids[j]]
			if isBus(a) && isBus(b) {
				continue
			}
			boxA := boxFor(a, positions[ids[i]], cfg).Expand(cfg.Clearance)
			boxB := boxFor(b, positions[ids[j]], cfg).Expand(cfg.Clearance)
			dx, dy := penetration(boxA, boxB)
			if dx > 0 && dy > 0 {
				report.Overlaps = append(report.Overlaps, Overlap{A: ids[i], B: ids[j], DX: dx, DY: dy})
			}
		}
	}
	report.HasCollisions = len(report.Overlaps) > 0
	return report
}

// penetration returns the positive overlap per axis, or non-positive
// values when the boxes are separated on that axis.
func penetration(a, b geom.Box) (dx, dy float64) {
	dx = min(a.MaxX, b.MaxX) - max(a.MinX, b.MinX)
	dy = min(a.MaxY, b.MaxY) - max(a.MinY, b.MinY)
	return dx, dy
}

func isBus(s model.Symbol) bool {
	_, ok := s.(model.Bus)
	return ok
}

// typePriority orders symbol types for mover selection. Higher values stay
// put; the lower-priority symbol of a pair moves.
func typePriority(s model.Symbol) int {
	switch s.(type) {
	case model.Bus:
		return 6
	case model.TransformerBranch:
		return 5
	case model.Source:
		return 4
	case model.Switch:
		return 3
	case model.LineBranch:
		return 2
	case model.Load:
		return 1
	default:
		return 0
	}
}

// mover picks which symbol of an overlapping pair is shifted: the one with
// lower type priority, ties broken toward the lexically larger ID.
func mover(a, b model.Symbol) string {
	pa, pb := typePriority(a), typePriority(b)
	if pa > pb {
		return b.ID()
	}
	if pb > pa {
		return a.ID()
	}
	if strings.Compare(a.ID(), b.ID()) > 0 {
		return a.ID()
	}
	return b.ID()
}
