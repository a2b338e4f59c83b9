package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dusk-sh/dusk/internal/db"
	"github.com/dusk-sh/dusk/internal/render"
	"github.com/dusk-sh/dusk/internal/scanner"
	"github.com/dusk-sh/dusk/internal/trend"
)

var historyCmd = &cobra.Command{
	Use:   "history [root]",
	Short: "Show past scan history",
	Args:  cobra.MaximumNArgs(1),
	Run:   runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report for a past scan by ID",
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

var compareCmd = &cobra.Command{
	Use:   "compare [root]",
	Short: "Compare the two most recent scans for a path",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCompare,
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Clean old scan data",
	Run:   runPrune,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "max number of scans to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	showCmd.Flags().Bool("json", false, "output as JSON")

	compareCmd.Flags().Bool("json", false, "output as JSON")

	pruneCmd.Flags().IntP("keep", "k", 10, "number of recent scans to keep per path")
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOut, _ := cmd.Flags().GetBool("json")

	root := ""
	if len(args) > 0 {
		root = scanner.ExpandPath(args[0])
	}

	cfg := loadConfig()
	database := openDB(cfg)
	defer database.Close()

	scans, err := database.GetScanHistory(root, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		render.PrintJSON(os.Stdout, scans)
		return
	}
	render.PrintHistory(os.Stdout, scans)
}

func runShow(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid scan id %q\n", args[0])
		os.Exit(1)
	}

	cfg := loadConfig()
	database := openDB(cfg)
	defer database.Close()

	result, err := database.GetScanByID(id)
	if errors.Is(err, db.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No scan found with ID %d.\n", id)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		render.PrintJSON(os.Stdout, result)
		return
	}
	render.PrintScan(os.Stdout, result)
}

func runCompare(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")

	root := "~"
	if len(args) > 0 {
		root = args[0]
	}
	root = scanner.ExpandPath(root)

	cfg := loadConfig()
	database := openDB(cfg)
	defer database.Close()

	latest, err := database.GetLatestScan(root)
	if errors.Is(err, db.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No scans found for %s\n", root)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	previous, err := database.GetPreviousScan(root)
	if errors.Is(err, db.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Only one scan found for %s - need at least two to compare.\n", root)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	comparison := trend.Compare(latest, previous)

	if jsonOut {
		render.PrintJSON(os.Stdout, comparison)
		return
	}
	fmt.Printf("Comparing: %s -> %s\n\n",
		previous.Timestamp.Format("2006-01-02 15:04"),
		latest.Timestamp.Format("2006-01-02 15:04"))
	render.PrintComparison(os.Stdout, comparison)
}

func runPrune(cmd *cobra.Command, args []string) {
	keep, _ := cmd.Flags().GetInt("keep")

	cfg := loadConfig()
	database := openDB(cfg)
	defer database.Close()

	deleted, err := database.PruneOldScans(keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if deleted > 0 {
		fmt.Printf("Pruned %d old scan(s).\n", deleted)
	} else {
		fmt.Println("Nothing to prune.")
	}
}
