package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"retrack/internal/config"
	"retrack/internal/engine"
	"retrack/internal/ffmpeg"
	"retrack/internal/history"
	"retrack/internal/preflight"
	"retrack/internal/rules"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var keepOriginal bool

	cmd := &cobra.Command{
		Use:   "apply <file>...",
		Short: "Rewrite audio tracks in place according to the rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			checks := preflight.RunAll(cfg)
			if preflight.Failed(checks) {
				for _, check := range checks {
					if !check.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", check.Name, check.Detail)
					}
				}
				return fmt.Errorf("preflight checks failed")
			}

			rs, err := loadRules(cfg)
			if err != nil {
				return err
			}

			if !dryRun {
				lock, release, err := acquireLock(cfg)
				if err != nil {
					return err
				}
				defer release()
				logger.Debug("acquired apply lock", "path", lock)
			}

			var store *history.Store
			if cfg.History.Enabled && !dryRun {
				store, err = history.Open(cfg.History.Path)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
			}

			keep := keepOriginal || cfg.Output.KeepOriginal
			runID := uuid.New().String()
			failures := 0
			for _, path := range args {
				if err := applyOne(cmd, ctx, applyRequest{
					path:   path,
					rules:  rs,
					runID:  runID,
					store:  store,
					dryRun: dryRun,
					keep:   keep,
				}); err != nil {
					failures++
					logger.Error("apply failed", "path", path, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Plan only; do not run ffmpeg")
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "Keep the original file with an .old suffix")
	return cmd
}

type applyRequest struct {
	path   string
	rules  rules.RuleSet
	runID  string
	store  *history.Store
	dryRun bool
	keep   bool
}

func applyOne(cmd *cobra.Command, ctx *commandContext, req applyRequest) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := ctx.ensureLogger()
	out := cmd.OutOrStdout()

	src, report, err := inspectSource(cmd.Context(), cfg, req.path)
	if err != nil {
		return err
	}
	result, err := engine.Process(src, req.rules)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s\n", req.path, statusLabel(result.Status))
	if result.Status != engine.StatusChanged {
		return recordRun(cmd, req, result)
	}

	if req.dryRun {
		fmt.Fprintln(out, renderTable(
			[]string{"Out", "In", "Action", "Codec", "Channels", "Bitrate", "Title", "Dispositions"},
			planRows(result.Plan),
			[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
		return nil
	}

	logger.Info("applying plan",
		"path", req.path,
		"tracks_in", len(src.Audio),
		"tracks_out", result.Plan.OutputTracks())

	if err := ffmpeg.Apply(cmd.Context(), ffmpeg.ApplyOptions{
		Binary:       cfg.Tools.FFmpeg,
		Input:        req.path,
		Plan:         result.Plan,
		PriorComment: report.Comment(),
		KeepOriginal: req.keep,
		Logger:       logger,
	}); err != nil {
		return err
	}

	return recordRun(cmd, req, result)
}

func recordRun(cmd *cobra.Command, req applyRequest, result engine.Result) error {
	if req.store == nil {
		return nil
	}
	planJSON := ""
	if result.Status == engine.StatusChanged {
		data, err := json.Marshal(result.Plan)
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		planJSON = string(data)
	}
	token, err := engine.Token(req.rules)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(req.path)
	if err != nil {
		abs = req.path
	}
	_, err = req.store.Record(cmd.Context(), history.Entry{
		RunID:    req.runID,
		Path:     abs,
		Token:    token,
		Status:   result.Status.String(),
		Changed:  result.Status == engine.StatusChanged,
		PlanJSON: planJSON,
	})
	return err
}

// acquireLock takes the single-instance apply lock next to the history
// database. Two concurrent applies against the same file would race on
// the in-place swap.
func acquireLock(cfg *config.Config) (string, func(), error) {
	dir := filepath.Dir(cfg.History.Path)
	if !cfg.History.Enabled || strings.TrimSpace(cfg.History.Path) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create lock directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "retrack.lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return "", nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return "", nil, fmt.Errorf("another apply is already running (lock %s)", path)
	}
	return path, func() { _ = lock.Unlock() }, nil
}
