package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-sh/dusk/internal/config"
	"github.com/dusk-sh/dusk/internal/db"
	"github.com/dusk-sh/dusk/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "dusk",
	Short:   "Disk usage tracker with trend analysis",
	Version: version.Version,
	Long: `Dusk answers "where did my disk space go, and what changed since
last time?". It scans capacity, directory sizes and large files
concurrently, keeps a local history, and reports growth trends
between scans of the same path.`,
	Example: `  dusk scan              Scan home directory
  dusk scan ~/Projects   Scan a specific path
  dusk scan . -d2 -t10   Depth 2, top 10 dirs
  dusk history           List past scans
  dusk show 3            Show report for scan #3
  dusk compare           Diff last two scans
  dusk docker            Show Docker disk usage
  dusk prune             Clean old scan data`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/dusk/config.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(dockerCmd)
}

// loadConfig reads the config file, exiting on a malformed one.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openDB opens the scan history database for the loaded config.
func openDB(cfg *config.Config) *db.DB {
	database, err := db.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return database
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
