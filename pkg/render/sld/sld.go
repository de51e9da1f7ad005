// Package sld draws a positioned single-line diagram as SVG.
//
// The renderer treats the engine's position map as authoritative: it never
// recomputes or nudges a coordinate. Output is byte-stable for identical
// input, so diagrams can be diffed across runs.
package sld

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/skeleton"
)

// Glyph constants in pixels.
const (
	busThickness     = 6.0
	switchSide       = 14.0
	trafoRadius      = 12.0
	trafoOverlap     = 8.0
	sourceRadius     = 14.0
	loadArrowLength  = 18.0
	loadArrowHalf    = 7.0
	labelOffset      = 6.0
	labelFontSize    = 10
	canvasPadding    = 60.0
	quarantineStroke = "#b91c1c"
)

// Options configures SVG generation.
type Options struct {
	// Labels draws the display name next to each symbol.
	Labels bool
}

// RenderSVG draws the symbols at their final positions. The positions map
// is the engine's authoritative (post-resolution) output; the skeleton
// supplies busbar bar geometry and the quarantine list. Symbols without a
// position are skipped; quarantined symbols are drawn with a warning
// stroke so operators can spot disconnected gear.
func RenderSVG(symbols []model.Symbol, positions map[string]geom.Point, sk *skeleton.Skeleton, opts Options) []byte {
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

	width, height := canvasSize(positions)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	quarantined := make(map[string]bool, len(sk.Quarantined))
	for _, id := range sk.Quarantined {
		quarantined[id] = true
	}

	// Connection strokes first so glyphs draw on top.
	drawBusbars(&buf, sk)

	for _, id := range ids {
		stroke := "#111827"
		if quarantined[id] {
			stroke = quarantineStroke
		}
		drawSymbol(&buf, byID[id], positions[id], stroke)
		if opts.Labels {
			drawLabel(&buf, byID[id], positions[id])
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// canvasSize derives the viewBox from the position extent plus padding.
func canvasSize(positions map[string]geom.Point) (w, h float64) {
	maxX, maxY := 0, 0
	for _, p := range positions {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return float64(maxX) + canvasPadding, float64(maxY) + canvasPadding
}

// drawBusbars renders each section as a thick horizontal bar of its
// computed width.
func drawBusbars(buf *bytes.Buffer, sk *skeleton.Skeleton) {
	for _, bl := range sk.Busbars {
		for _, sec := range bl.Sections {
			x := float64(sec.CenterX) - float64(sec.Width)/2
			y := float64(bl.Y) - busThickness/2
			fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%d" height="%.1f" fill="#111827"/>`+"\n",
				x, y, sec.Width, busThickness)
		}
	}
}

// drawSymbol renders one glyph centered on its position. Busbars are
// handled by drawBusbars and get no extra glyph.
func drawSymbol(buf *bytes.Buffer, s model.Symbol, p geom.Point, stroke string) {
	x, y := float64(p.X), float64(p.Y)
	switch s.(type) {
	case model.Bus:
		// Drawn as a bar by drawBusbars.
	case model.Switch:
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" fill="white" stroke="%s" stroke-width="1.5"/>`+"\n",
			x-switchSide/2, y-switchSide/2, switchSide, switchSide, stroke)
	case model.TransformerBranch:
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.0f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			x, y-trafoRadius+trafoOverlap/2, trafoRadius, stroke)
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.0f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			x, y+trafoRadius-trafoOverlap/2, trafoRadius, stroke)
	case model.Source:
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.0f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			x, y, sourceRadius, stroke)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d" text-anchor="middle" dominant-baseline="central">G</text>`+"\n",
			x, y, labelFontSize+2)
	case model.Load:
		fmt.Fprintf(buf, `  <path d="M %.1f %.1f L %.1f %.1f L %.1f %.1f Z" fill="%s"/>`+"\n",
			x-loadArrowHalf, y-loadArrowLength/2, x+loadArrowHalf, y-loadArrowLength/2, x, y+loadArrowLength/2, stroke)
	case model.LineBranch:
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5"/>`+"\n",
			x, y-loadArrowLength, x, y+loadArrowLength, stroke)
	}
}

func drawLabel(buf *bytes.Buffer, s model.Symbol, p geom.Point) {
	name := s.DisplayName()
	if name == "" {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%d">%s</text>`+"\n",
		float64(p.X)+labelOffset+switchSide/2, float64(p.Y)-labelOffset, labelFontSize, escape(name))
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
