// Command turnlog inspects and repairs stored conversation session logs.
//
// It operates on the file store only; driving live turns requires a
// generation collaborator and belongs to the embedding application.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	sessionsDir string
	verbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "turnlog",
		Short:         "Inspect and repair stored conversation logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	root.PersistentFlags().StringVar(&sessionsDir, "sessions", defaultSessionsDir(), "Directory holding session log files")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging to stderr")

	root.AddCommand(
		newSessionsCmd(),
		newShowCmd(),
		newRepairCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultSessionsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sessions"
	}
	return home + "/.turnlog/sessions"
}
