package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlorenc/sldgrid/pkg/engine"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

// renderSummary formats the diagnostics of one layout run for terminal
// display.
func renderSummary(res *engine.Result) string {
	d := res.Diagnostics
	var b strings.Builder

	b.WriteString(styleTitle.Render("Layout") + "\n")
	fmt.Fprintf(&b, "  symbols   %s\n", styleNumber.Render(fmt.Sprint(d.SymbolCount)))
	fmt.Fprintf(&b, "  placed    %s\n", styleNumber.Render(fmt.Sprint(d.PlacedCount)))
	fmt.Fprintf(&b, "  elapsed   %s\n", styleDim.Render(d.TotalTime.String()))

	if len(d.FilteredIDs) > 0 {
		fmt.Fprintf(&b, "  filtered  %s %s\n",
			styleNumber.Render(fmt.Sprint(len(d.FilteredIDs))),
			styleDim.Render(strings.Join(d.FilteredIDs, ", ")))
	}
	if len(d.StationGroups) > 0 {
		fmt.Fprintf(&b, "  stations  %s\n", styleNumber.Render(fmt.Sprint(len(d.StationGroups))))
	}
	if len(d.QuarantinedIDs) > 0 {
		fmt.Fprintf(&b, "  %s %s\n",
			styleWarning.Render("quarantined"),
			strings.Join(d.QuarantinedIDs, ", "))
	}
	if len(d.UnassignedIDs) > 0 {
		fmt.Fprintf(&b, "  %s %s\n",
			styleError.Render("unassigned"),
			strings.Join(d.UnassignedIDs, ", "))
	}
	if res.Collisions.HasCollisions {
		fmt.Fprintf(&b, "  %s %d overlap(s) left after resolution\n",
			styleError.Render("collisions"), len(res.Collisions.Overlaps))
	} else {
		fmt.Fprintf(&b, "  %s\n", styleSuccess.Render("no collisions"))
	}
	return b.String()
}
