package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "bokehbridge",
	Short:   "Embed Bokeh charts with host-synchronized theming",
	Version: version,
	Long: `Bokehbridge renders serialized Bokeh chart definitions into standalone
HTML pages, keeping the chart's visual theme in sync with a set of host
style tokens. It loads each external BokehJS asset exactly once, skips
re-renders when neither the chart nor the applicable theme changed, and
can serve generated pages from a small dev server.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands to root command
	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(validateCmd)
}
