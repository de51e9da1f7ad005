// Package geom provides the geometric vocabulary of the layout engine:
// integer grid points, axis-aligned boxes, page formats and the geometry
// configuration with its named numeric constants.
package geom

// Point is a grid-snapped pixel coordinate. The engine only ever produces
// points whose components are multiples of the configured grid size.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Box is an axis-aligned rectangle in pixel coordinates.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxAround builds a box of the given width and height centered on p.
func BoxAround(p Point, width, height float64) Box {
	return Box{
		MinX: float64(p.X) - width/2,
		MinY: float64(p.Y) - height/2,
		MaxX: float64(p.X) + width/2,
		MaxY: float64(p.Y) + height/2,
	}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Expand grows the box by m on every side.
func (b Box) Expand(m float64) Box {
	return Box{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}
