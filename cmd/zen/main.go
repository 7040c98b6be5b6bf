// zen runs the zen-zen meditative arcade simulation.
//
// Usage:
//
//	zen serve   - Run the engine with the HTTP/WebSocket API
//	zen demo    - Run headless and render field frames to PNG
//	zen version - Print the version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	flagConfig string
	flagSeed   int64
)

var rootCmd = &cobra.Command{
	Use:   "zen",
	Short: "zen-zen - a meditative arcade simulation engine",
	Long: `zen-zen simulates a luminous core drifting through a field of
dissonances, amplifiers and resonators. The engine runs headless;
presentation clients consume snapshots and events over HTTP/WebSocket.

Examples:
  zen serve
  zen serve --config ./zen.yaml
  zen demo --frames 120 --out ./frames`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("zen", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
