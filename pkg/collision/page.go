package collision

import (
	sgerrors "github.com/mlorenc/sldgrid/pkg/errors"
	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// PageFit is the result of validating the layout extent against one
// export page format.
type PageFit struct {
	Format geom.PageFormat
	// Width and Height are the required extent including the page margin.
	Width, Height float64
	// PageWidth and PageHeight are the format's dimensions.
	PageWidth, PageHeight float64
	Fits                  bool
}

// ValidatePageFit computes the tight bounding box of all positioned
// symbols, adds the configured page margin on every side and compares the
// result against the named page format.
func ValidatePageFit(symbols []model.Symbol, positions map[string]geom.Point, cfg geom.Config, format geom.PageFormat) (PageFit, error) {
	page, err := geom.PageSize(format)
	if err != nil {
		return PageFit{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidFormat, err, "page fit")
	}

	fit := PageFit{Format: format, PageWidth: page.Width, PageHeight: page.Height}
	first := true
	var extent geom.Box
	for _, s := range symbols {
		p, placed := positions[s.ID()]
		if !placed {
			continue
		}
		box := boxFor(s, p, cfg)
		if first {
			extent = box
			first = false
			continue
		}
		extent = extent.Union(box)
	}
	if first {
		fit.Fits = true
		return fit, nil
	}

	fit.Width = extent.Width() + 2*cfg.PageMargin
	fit.Height = extent.Height() + 2*cfg.PageMargin
	fit.Fits = fit.Width <= page.Width && fit.Height <= page.Height
	return fit, nil
}
