// Package cmd wires the cobra CLI surface to the core components: scan,
// release, maintenance, reset, gc, full, and gen-key.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/log"
)

var (
	cfgFile    string
	verbose    bool
	realStdout *os.File // Real stdout saved before redirection
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pvector",
	Short: "Index and publish a Debian-style binary package mirror",
	Long: `pvector scans a pool/ tree of .deb files, maintains a relational
index of packages, files, and dependency relationships, and renders signed
dists/ release trees, with garbage collection for stale index rows and
retired artifacts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Save the real stdout before redirecting
		realStdout = os.Stdout

		// Redirect os.Stdout to discard to suppress unwanted library output (e.g., aptly's fmt.Printf)
		os.Stdout, _ = os.Open(os.DevNull)

		// Configure logging based on verbose flag
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		handler := log.NewHandler(realStdout, level)
		slog.SetDefault(slog.New(handler))

		// Set Cobra's output to real stdout (not redirected)
		cmd.SetOut(realStdout)
		cmd.SetErr(realStdout)
	},
}

// ExecuteContext runs the root command with context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/pvector/config.yaml or /etc/pvector/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(maintenanceCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(genKeyCmd)
}
