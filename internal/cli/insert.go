package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlorenc/sldgrid/pkg/autoinsert"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// newInsertCmd creates the insert command, which applies one model delta
// against a previous run and reports which positions survived unchanged.
func newInsertCmd() *cobra.Command {
	var (
		configPath    string
		positionsPath string
		outPath       string
		addPath       string
		removeID      string
		modifyPath    string
	)

	cmd := &cobra.Command{
		Use:   "insert <network-file>",
		Short: "Apply a model delta and relayout incrementally",
		Long: `Insert takes the network file and position output of a previous layout
run plus exactly one delta (--add, --remove or --modify), recomputes the
layout and reports which symbols kept their position and which moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			op, err := buildOp(addPath, removeID, modifyPath)
			if err != nil {
				return err
			}
			cfg, err := loadGeometry(configPath)
			if err != nil {
				return err
			}
			symbols, err := model.ReadNetworkFile(args[0])
			if err != nil {
				return err
			}
			prev, err := readPositions(positionsPath)
			if err != nil {
				return err
			}
			logger.Debugf("loaded %d symbols and %d prior positions", len(symbols), len(prev))

			res, err := autoinsert.Apply(ctx, symbols, prev, op, cfg)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writePositions(outPath, res.UpdatedPositions); err != nil {
					return err
				}
				logger.Infof("wrote positions to %s", outPath)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", styleTitle.Render("Insert"))
			fmt.Fprintf(out, "  delta     %s\n", styleNumber.Render(string(op.Kind)))
			fmt.Fprintf(out, "  stable    %s\n", styleNumber.Render(fmt.Sprint(len(res.StableIDs))))
			fmt.Fprintf(out, "  changed   %s %s\n",
				styleNumber.Render(fmt.Sprint(len(res.ChangedIDs))),
				styleDim.Render(strings.Join(res.ChangedIDs, ", ")))
			if res.Structural {
				fmt.Fprintf(out, "  scope     %s\n", styleWarning.Render("structural"))
			} else if res.AffectedBusbar != "" {
				fmt.Fprintf(out, "  scope     busbar %s\n", styleNumber.Render(res.AffectedBusbar))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML geometry config overrides")
	cmd.Flags().StringVarP(&positionsPath, "positions", "p", "", "positions JSON from the previous run")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write updated positions JSON to file")
	cmd.Flags().StringVar(&addPath, "add", "", "JSON file with one symbol record to add")
	cmd.Flags().StringVar(&removeID, "remove", "", "ID of the symbol to remove")
	cmd.Flags().StringVar(&modifyPath, "modify", "", "JSON file with one replacement symbol record")
	_ = cmd.MarkFlagRequired("positions")
	return cmd
}

// buildOp turns the mutually exclusive delta flags into one operation.
func buildOp(addPath, removeID, modifyPath string) (autoinsert.Op, error) {
	set := 0
	for _, v := range []string{addPath, removeID, modifyPath} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return autoinsert.Op{}, fmt.Errorf("exactly one of --add, --remove or --modify is required")
	}

	switch {
	case removeID != "":
		return autoinsert.Op{Kind: autoinsert.OpRemove, SymbolID: removeID}, nil
	case addPath != "":
		sym, err := readSymbol(addPath)
		if err != nil {
			return autoinsert.Op{}, err
		}
		return autoinsert.Op{Kind: autoinsert.OpAdd, Symbol: sym}, nil
	default:
		sym, err := readSymbol(modifyPath)
		if err != nil {
			return autoinsert.Op{}, err
		}
		return autoinsert.Op{Kind: autoinsert.OpModify, Symbol: sym, SymbolID: sym.ID()}, nil
	}
}

// readSymbol loads a single symbol record from a JSON file.
func readSymbol(path string) (model.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sym, err := model.UnmarshalSymbol(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sym, nil
}
