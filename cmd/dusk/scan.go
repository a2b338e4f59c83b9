package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-sh/dusk/internal/db"
	"github.com/dusk-sh/dusk/internal/models"
	"github.com/dusk-sh/dusk/internal/render"
	"github.com/dusk-sh/dusk/internal/scanner"
	"github.com/dusk-sh/dusk/internal/trend"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan disk usage and show results",
	Long: `Scan disk usage for a path (default: home directory).

Capacity, directory sizes and large files are probed concurrently.
The result is saved to history and, when a previous scan of the same
path exists, a trend comparison is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().IntP("depth", "d", 0, "directory depth for scanning")
	scanCmd.Flags().IntP("top", "t", 0, "number of top directories to show")
	scanCmd.Flags().IntP("files", "f", 0, "number of large files to show")
	scanCmd.Flags().Int("min-size", 0, "minimum file size in MB for large files")
	scanCmd.Flags().Bool("no-history", false, "don't save this scan to history")
	scanCmd.Flags().Bool("no-trend", false, "don't show trend comparison")
	scanCmd.Flags().Bool("json", false, "output as JSON")
}

func runScan(cmd *cobra.Command, args []string) {
	path := "~"
	if len(args) > 0 {
		path = args[0]
	}

	cfg := loadConfig()
	opts := cfg.ScanOptions()
	if v, _ := cmd.Flags().GetInt("depth"); v > 0 {
		opts.Depth = v
	}
	if v, _ := cmd.Flags().GetInt("top"); v > 0 {
		opts.TopDirs = v
	}
	if v, _ := cmd.Flags().GetInt("files"); v > 0 {
		opts.TopFiles = v
	}
	if v, _ := cmd.Flags().GetInt("min-size"); v > 0 {
		opts.MinFileSizeMB = v
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")
	noTrend, _ := cmd.Flags().GetBool("no-trend")
	jsonOut, _ := cmd.Flags().GetBool("json")

	if !jsonOut {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", scanner.ExpandPath(path))
	}

	result, err := scanner.Scan(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var comparison *models.Comparison
	if !noHistory {
		database := openDB(cfg)
		defer database.Close()

		if _, err := database.SaveScan(result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save scan: %v\n", err)
		} else if !noTrend {
			previous, err := database.GetPreviousScan(result.RootPath)
			switch {
			case err == nil:
				comparison = trend.Compare(result, previous)
			case errors.Is(err, db.ErrNotFound):
				// First scan of this root; nothing to compare against.
			default:
				fmt.Fprintf(os.Stderr, "Warning: could not load previous scan: %v\n", err)
			}
		}
	}

	if jsonOut {
		out := struct {
			Scan       *models.ScanResult `json:"scan"`
			Comparison *models.Comparison `json:"comparison,omitempty"`
		}{result, comparison}
		render.PrintJSON(os.Stdout, out)
		return
	}

	render.PrintScan(os.Stdout, result)
	if comparison != nil {
		render.PrintComparison(os.Stdout, comparison)
	}
}
