package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlorenc/sldgrid/pkg/engine"
	"github.com/mlorenc/sldgrid/pkg/model"
)

// newVerifyCmd creates the verify command, a determinism self-check that
// lays out the same network twice and compares the runs.
func newVerifyCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify <network-file>",
		Short: "Run the layout twice and verify identical output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadGeometry(configPath)
			if err != nil {
				return err
			}
			symbols, err := model.ReadNetworkFile(args[0])
			if err != nil {
				return err
			}

			if err := engine.VerifyDeterminism(ctx, symbols, cfg); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", styleError.Render("✗"), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s identical positions and roles across runs\n",
				styleSuccess.Render("✓"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML geometry config overrides")
	return cmd
}
