package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Hierarchical routing engine toolkit",
		Long: `Routekit is a hierarchical route-resolution engine for Go.

It matches URL paths against a tree of named routes, runs a vetoable
leave/enter lifecycle over the nodes that change, and reconstructs URLs
from the tree's active state.

The CLI ships a demo navigator server and a route-table inspector.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("routekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
