package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"retrack/internal/engine"
	"retrack/internal/ffmpeg"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var showArgs bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Show what apply would do to a file without touching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rs, err := loadRules(cfg)
			if err != nil {
				return err
			}
			src, report, err := inspectSource(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			result, err := engine.Process(src, rs)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, planView{
					Path:   args[0],
					Status: result.Status.String(),
					Plan:   result.Plan,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", args[0], statusLabel(result.Status))
			if result.Status != engine.StatusChanged {
				return nil
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Out", "In", "Action", "Codec", "Channels", "Bitrate", "Title", "Dispositions"},
				planRows(result.Plan),
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			if dropped := len(src.Audio) - result.Plan.OutputTracks(); dropped > 0 {
				fmt.Fprintf(out, "Dropped tracks: %d\n", dropped)
			}
			if len(result.Plan.ExcludedStreams) > 0 {
				fmt.Fprintf(out, "Excluded streams (unidentified encoding): %v\n", result.Plan.ExcludedStreams)
			}

			if showArgs {
				cmdArgs := ffmpeg.BuildArgs(args[0], args[0]+".tmp"+filepath.Ext(args[0]), result.Plan, report.Comment())
				fmt.Fprintln(out, "ffmpeg arguments:")
				for _, arg := range cmdArgs {
					fmt.Fprintf(out, "  %s\n", quoteArg(arg))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the plan as JSON")
	cmd.Flags().BoolVar(&showArgs, "show-args", false, "Print the ffmpeg argument list")
	return cmd
}

type planView struct {
	Path   string             `json:"path"`
	Status string             `json:"status"`
	Plan   engine.CommandPlan `json:"plan"`
}

func quoteArg(arg string) string {
	for _, r := range arg {
		if r == ' ' || r == '"' {
			return strconv.Quote(arg)
		}
	}
	return arg
}
