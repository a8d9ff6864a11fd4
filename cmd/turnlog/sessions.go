package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/turnlog/compact"
	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/orchestrator"
	"github.com/tailored-agentic-units/turnlog/prune"
	"github.com/tailored-agentic-units/turnlog/sanitize"
	"github.com/tailored-agentic-units/turnlog/store"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewFileStore(sessionsDir)
			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the turns of a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewFileStore(sessionsDir)
			log, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, t := range log.Turns {
				printTurn(t)
			}
			return nil
		},
	}
}

func printTurn(t history.Turn) {
	switch {
	case t.IsCheckpoint():
		fmt.Printf("[%d] checkpoint (covers %d-%d): %s\n", t.Seq, t.Covers.First, t.Covers.Last, t.Content)
	case t.Role == history.RoleTool:
		status := "ok"
		if t.Failed {
			status = "failed"
		}
		fmt.Printf("[%d] tool %s (%s): %s\n", t.Seq, t.InvocationID, status, t.Content)
	default:
		fmt.Printf("[%d] %s: %s\n", t.Seq, t.Role, t.Content)
		for _, inv := range t.Invocations {
			fmt.Printf("      -> %s %s(%s)\n", inv.ID, inv.Name, inv.Arguments)
		}
	}
}

func newRepairCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair <session-id>",
		Short: "Sanitize a stored session log and save the result",
		Long: `Repair runs the history sanitizer on a stored session log: dangling tool
invocations, empty assistant turns, duplicate user submissions, and stacked
system prompts are removed. The repaired log is written back unless --dry-run
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.NewFileStore(sessionsDir)
			log, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			clean, err := sanitize.Sanitize(log)
			if err != nil {
				return err
			}

			removed := log.Len() - clean.Len()
			if removed == 0 {
				fmt.Println("log is clean")
				return nil
			}

			fmt.Printf("removed %d turns\n", removed)
			if dryRun {
				return nil
			}
			return st.Save(cmd.Context(), args[0], clean)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without saving")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		budget     int
		window     int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Show size and compaction stats for a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := orchestrator.LoadConfig(configPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("budget") {
					budget = cfg.Session.Policy.TokenBudget
				}
				if !cmd.Flags().Changed("window") {
					window = cfg.Session.Policy.RetentionWindow
				}
			}

			st := store.NewFileStore(sessionsDir)
			log, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			byRole := make(map[history.Role]int)
			checkpoints := 0
			for _, t := range log.Turns {
				byRole[t.Role]++
				if t.IsCheckpoint() {
					checkpoints++
				}
			}

			fmt.Printf("turns: %d (user %d, assistant %d, tool %d, system %d, checkpoints %d)\n",
				log.Len(), byRole[history.RoleUser], byRole[history.RoleAssistant],
				byRole[history.RoleTool], byRole[history.RoleSystem], checkpoints)
			fmt.Printf("effective context: %d turns\n", log.EffectiveContext().Len())
			fmt.Printf("estimated tokens since checkpoint: %d\n", compact.CostSince(log))
			fmt.Printf("would compact at budget %d: %v\n", budget, compact.ShouldCompact(log, budget))

			if window > 0 {
				pruned := prune.Prune(log, window)
				truncated := 0
				for _, t := range pruned.Turns {
					if t.Truncated {
						truncated++
					}
				}
				fmt.Printf("prune with window %d: %d truncated tool results\n", window, truncated)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&budget, "budget", 40_000, "Token budget for the compaction check")
	cmd.Flags().IntVar(&window, "window", 0, "Preview pruning with this retention window")
	cmd.Flags().StringVar(&configPath, "config", "", "Read budget and window defaults from a JSON config file")
	return cmd
}
