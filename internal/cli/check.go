package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlorenc/sldgrid/pkg/collision"
	"github.com/mlorenc/sldgrid/pkg/engine"
	sgerrors "github.com/mlorenc/sldgrid/pkg/errors"
	"github.com/mlorenc/sldgrid/pkg/geom"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// newCheckCmd creates the check command, which lays out a network and
// reports residual overlaps and page fit without writing any artifacts.
func newCheckCmd() *cobra.Command {
	var (
		configPath string
		page       string
	)

	cmd := &cobra.Command{
		Use:   "check <network-file>",
		Short: "Validate collisions and page fit for a network file",
		Long: `Check computes the layout for a JSON or YAML network file and reports
whether any symbol boxes still overlap after resolution and whether the
diagram fits the requested export page format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadGeometry(configPath)
			if err != nil {
				return err
			}
			symbols, err := model.ReadNetworkFile(args[0])
			if err != nil {
				return err
			}
			logger.Debugf("loaded %d symbols from %s", len(symbols), args[0])

			res, err := engine.Layout(ctx, symbols, cfg)
			if err != nil {
				return err
			}

			fit, err := collision.ValidatePageFit(symbols, res.Positions, cfg, geom.PageFormat(page))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderSummary(res))
			fmt.Fprint(out, renderPageFit(fit))

			if len(res.Collisions.Overlaps) > 0 {
				lines := make([]string, 0, len(res.Collisions.Overlaps))
				for _, o := range res.Collisions.Overlaps {
					lines = append(lines, fmt.Sprintf("%s / %s", o.A, o.B))
				}
				fmt.Fprintf(out, "  %s %s\n",
					styleError.Render("overlaps"),
					strings.Join(lines, "; "))
				return fmt.Errorf("%d unresolved overlaps", len(res.Collisions.Overlaps))
			}
			if !fit.Fits {
				return sgerrors.New(sgerrors.ErrCodePageOverflow,
					"diagram needs %.0fx%.0f, %s offers %.0fx%.0f",
					fit.Width, fit.Height, fit.Format, fit.PageWidth, fit.PageHeight)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML geometry config overrides")
	cmd.Flags().StringVar(&page, "page", string(geom.A4Landscape),
		fmt.Sprintf("export page format (%s)", strings.Join(geom.PageFormats(), ", ")))
	return cmd
}

// renderPageFit formats one page fit verdict for terminal display.
func renderPageFit(fit collision.PageFit) string {
	var b strings.Builder
	verdict := styleSuccess.Render("fits")
	if !fit.Fits {
		verdict = styleError.Render("overflows")
	}
	fmt.Fprintf(&b, "  page      %s %s %s\n",
		styleNumber.Render(string(fit.Format)),
		styleDim.Render(fmt.Sprintf("%.0fx%.0f needed, %.0fx%.0f available",
			fit.Width, fit.Height, fit.PageWidth, fit.PageHeight)),
		verdict)
	return b.String()
}
