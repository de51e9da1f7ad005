package geom

import (
	"fmt"
	"sort"
)

// PageFormat names a supported export page size.
type PageFormat string

// Supported page formats. Dimensions are pixels at 96 dpi.
const (
	A4Portrait  PageFormat = "a4-portrait"
	A4Landscape PageFormat = "a4-landscape"
	A3Portrait  PageFormat = "a3-portrait"
	A3Landscape PageFormat = "a3-landscape"
)

// pageSizes holds the literal pixel dimensions per format.
var pageSizes = map[PageFormat]SizeBox{
	A4Portrait:  {Width: 794, Height: 1123},
	A4Landscape: {Width: 1123, Height: 794},
	A3Portrait:  {Width: 1123, Height: 1587},
	A3Landscape: {Width: 1587, Height: 1123},
}

// PageSize returns the pixel dimensions of a page format.
func PageSize(f PageFormat) (SizeBox, error) {
	size, ok := pageSizes[f]
	if !ok {
		return SizeBox{}, fmt.Errorf("unknown page format %q (supported: %v)", f, PageFormats())
	}
	return size, nil
}

// PageFormats returns the supported format names in sorted order.
func PageFormats() []string {
	names := make([]string, 0, len(pageSizes))
	for f := range pageSizes {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
