package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"retrack/internal/config"
	"retrack/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pathFilter string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled in the configuration")
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var entries []history.Entry
			if pathFilter != "" {
				resolved, err := config.ExpandPath(pathFilter)
				if err != nil {
					return err
				}
				entries, err = store.ListByPath(cmd.Context(), resolved, limit)
				if err != nil {
					return err
				}
			} else {
				entries, err = store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.Status,
					yesNo(entry.Changed),
					entry.Path,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Status", "Changed", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&pathFilter, "path", "", "Only show runs for this file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit entries as JSON")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
