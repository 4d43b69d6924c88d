package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"retrack/internal/engine"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Rule document utilities",
	}

	rulesCmd.AddCommand(newRulesLintCommand(ctx))
	rulesCmd.AddCommand(newRulesTokenCommand(ctx))

	return rulesCmd
}

func newRulesLintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Parse and validate the rules file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rs, err := loadRules(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rules OK\n", cfg.Rules.Path, len(rs.Rules))

			rows := make([][]string, 0, len(rs.Rules))
			for i, rule := range rs.Rules {
				action := "drop"
				if n := len(rule.Operations); n == 1 {
					if rule.Operations[0].Copy != nil {
						action = "copy"
					} else {
						action = "transcode"
					}
				} else if n > 1 {
					action = fmt.Sprintf("%d operations", n)
				}
				rows = append(rows, []string{strconv.Itoa(i), rule.Name, action})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Rule", "Name", "Action"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newRulesTokenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the watermark token for the current rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rs, err := loadRules(cfg)
			if err != nil {
				return err
			}
			mark, err := engine.Watermark(rs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mark)
			return nil
		},
	}
}
