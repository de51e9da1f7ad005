package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlorenc/sldgrid/pkg/engine"
	"github.com/mlorenc/sldgrid/pkg/model"
	"github.com/mlorenc/sldgrid/pkg/render/dot"
	"github.com/mlorenc/sldgrid/pkg/render/sld"
	"github.com/mlorenc/sldgrid/pkg/topo"
)

// newLayoutCmd creates the layout command, which computes positions for a
// network file and writes the requested artifacts.
func newLayoutCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
		svgPath    string
		dotPath    string
		dotSVGPath string
		labels     bool
	)

	cmd := &cobra.Command{
		Use:   "layout <network-file>",
		Short: "Compute symbol positions for a network file",
		Long: `Layout reads a JSON or YAML network file, classifies every symbol
topologically and computes grid-snapped pixel positions. Positions are an
output of the algorithm: the input file carries no coordinates.`,
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

			prog := newProgress(logger)
			res, err := engine.Layout(ctx, symbols, cfg)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d symbols", res.Diagnostics.PlacedCount))

			if outPath != "" {
				if err := writePositions(outPath, res.Positions); err != nil {
					return err
				}
				logger.Infof("wrote positions to %s", outPath)
			}
			if svgPath != "" {
				data := sld.RenderSVG(symbols, res.Positions, res.Skeleton, sld.Options{Labels: labels})
				if err := os.WriteFile(svgPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", svgPath, err)
				}
				logger.Infof("wrote SVG to %s", svgPath)
			}
			if dotPath != "" || dotSVGPath != "" {
				assigned := topo.Assign(symbols)
				src := dot.ToDOT(symbols, assigned, dot.Options{Detailed: true})
				if dotPath != "" {
					if err := os.WriteFile(dotPath, []byte(src), 0o644); err != nil {
						return fmt.Errorf("write %s: %w", dotPath, err)
					}
					logger.Infof("wrote DOT to %s", dotPath)
				}
				if dotSVGPath != "" {
					rendered, err := dot.RenderSVG(src)
					if err != nil {
						return err
					}
					if err := os.WriteFile(dotSVGPath, rendered, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", dotSVGPath, err)
					}
					logger.Infof("wrote topology SVG to %s", dotSVGPath)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), renderSummary(res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML geometry config overrides")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write positions JSON to file")
	cmd.Flags().StringVar(&svgPath, "svg", "", "render the diagram as SVG to file")
	cmd.Flags().StringVar(&dotPath, "dot", "", "write a Graphviz DOT topology view to file")
	cmd.Flags().StringVar(&dotSVGPath, "dot-svg", "", "render the DOT topology view as SVG to file")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw symbol names in the SVG")
	return cmd
}
