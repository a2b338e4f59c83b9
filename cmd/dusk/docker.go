package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-sh/dusk/internal/docker"
	"github.com/dusk-sh/dusk/internal/render"
)

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Show Docker disk usage analysis",
	Run:   runDocker,
}

func init() {
	dockerCmd.Flags().Bool("json", false, "output as JSON")
}

func runDocker(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")

	if !docker.Available() {
		fmt.Fprintln(os.Stderr, "Error: docker CLI not found. Is Docker installed?")
		os.Exit(1)
	}

	report, err := docker.Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read Docker disk usage (is the daemon running?): %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		render.PrintJSON(os.Stdout, report)
		return
	}
	render.PrintDockerReport(os.Stdout, report)
}
