// Package cli implements the sldgrid command-line interface.
//
// This package provides commands for computing single-line-diagram
// layouts from network files, checking collision and page-format
// constraints, applying incremental model deltas, and verifying layout
// determinism. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute symbol positions for a network file
//   - check: Detect collisions and validate export page fit
//   - insert: Apply one model delta incrementally and report moved symbols
//   - verify: Run the determinism self-check on a network file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/mlorenc/sldgrid/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
