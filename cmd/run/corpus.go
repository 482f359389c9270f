package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wippyai/proptest/corpus"
)

func newCorpusCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the counterexample corpus",
	}
	cmd.PersistentFlags().StringVar(&path, "corpus", "proptest.db", "SQLite counterexample corpus")

	list := &cobra.Command{
		Use:   "list [module]",
		Short: "List stored counterexamples",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := corpus.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			module := ""
			if len(args) == 1 {
				module = args[0]
			}
			entries, err := store.List(cmd.Context(), module)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODULE\tTEST\tHITS\tMESSAGE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Module, e.Test, e.Hits, e.Message)
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one counterexample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := corpus.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s › %s (seed %d, seen %d times)\n", e.Module, e.Test, e.Seed, e.Hits)
			for i, v := range e.Input {
				fmt.Fprintf(out, "  #%d = %s\n", i, v)
			}
			if e.Message != "" {
				fmt.Fprintf(out, "\n%s\n", e.Message)
			}
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete counterexamples",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := corpus.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(list, show, remove)
	return cmd
}
