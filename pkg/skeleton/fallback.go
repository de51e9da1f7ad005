package skeleton

import (
	"github.com/mlorenc/sldgrid/pkg/geom"
)

// placeFallbacks resolves symbols the regular passes left unpositioned by
// anchoring them to their neighbors: the midpoint of two or more placed
// neighbors, or one hop below a single placed neighbor. The pass iterates
// until a fixpoint so that short unclassified runs resolve hop by hop.
func (b *builder) placeFallbacks() {
	for {
		progress := false
		for _, id := range b.order {
			if _, placed := b.positions[id]; placed {
				continue
			}
			var anchors []geom.Point
			for _, n := range b.res.Neighbors[id] {
				if p, ok := b.positions[n]; ok {
					anchors = append(anchors, p)
				}
			}
			switch {
			case len(anchors) >= 2:
				sumX, sumY := 0, 0
				for _, p := range anchors {
					sumX += p.X
					sumY += p.Y
				}
				n := len(anchors)
				b.positions[id] = geom.Point{
					X: b.cfg.Snap(float64(sumX) / float64(n)),
					Y: b.cfg.Snap(float64(sumY) / float64(n)),
				}
				progress = true
			case len(anchors) == 1:
				b.positions[id] = geom.Point{
					X: anchors[0].X,
					Y: b.cfg.Snap(float64(anchors[0].Y) + b.cfg.ChainHop),
				}
				progress = true
			}
		}
		if !progress {
			return
		}
	}
}

// placeQuarantine lays the remaining unpositioned symbols into a
// deterministic row/column grid strictly below the regular layout, so
// disconnected elements stay visible without failing the run. Returns the
// quarantined IDs, sorted.
func (b *builder) placeQuarantine() []string {
	var orphans []string
	for _, id := range b.order {
		if _, placed := b.positions[id]; !placed {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) == 0 {
		return nil
	}

	maxY := 0
	for _, p := range b.positions {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	baseY := b.cfg.Snap(float64(maxY) + b.cfg.QuarantineGap)
	baseX := b.cfg.Snap(b.cfg.SpineMargin)

	for i, id := range orphans {
		col := i % b.cfg.QuarantineColumns
		row := i / b.cfg.QuarantineColumns
		b.positions[id] = geom.Point{
			X: b.cfg.Snap(float64(baseX) + float64(col)*b.cfg.BayWidth),
			Y: b.cfg.Snap(float64(baseY) + float64(row)*b.cfg.ChainHop),
		}
	}
	return orphans
}
