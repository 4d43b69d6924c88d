package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"retrack/internal/engine"
)

// ApplyOptions configures one in-place apply of a command plan.
type ApplyOptions struct {
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary string
	// Input is the media file the plan was computed for.
	Input string
	// Plan is the command plan to apply; it must be a changed plan.
	Plan engine.CommandPlan
	// PriorComment is the container's existing comment text.
	PriorComment string
	// KeepOriginal leaves the source file behind with an ".old" suffix.
	KeepOriginal bool
	// Logger receives progress events; nil discards them.
	Logger *slog.Logger
}

// Apply runs ffmpeg with the plan's arguments into a temporary sibling
// file, then swaps it into place. The original survives as "<input>.old"
// until the swap succeeds, and permanently when KeepOriginal is set.
func Apply(ctx context.Context, opts ApplyOptions) error {
	if !opts.Plan.Changed {
		return errors.New("ffmpeg apply: plan is unchanged")
	}
	input := strings.TrimSpace(opts.Input)
	if input == "" {
		return errors.New("ffmpeg apply: empty input path")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	tmp := tempOutputPath(input)
	args := BuildArgs(input, tmp, opts.Plan, opts.PriorComment)
	logger.Debug("running ffmpeg", "input", input, "args", strings.Join(args, " "))

	if err := run(ctx, opts.Binary, args); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	old := input + ".old"
	if err := os.Rename(input, old); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg apply: set aside original: %w", err)
	}
	if err := os.Rename(tmp, input); err != nil {
		// Put the original back so the caller is not left with a
		// missing file.
		_ = os.Rename(old, input)
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg apply: move output into place: %w", err)
	}
	if !opts.KeepOriginal {
		if err := os.Remove(old); err != nil {
			logger.Warn("could not remove original", "path", old, "error", err)
		}
	}
	logger.Info("applied plan", "input", input, "output_tracks", opts.Plan.OutputTracks())
	return nil
}

func run(ctx context.Context, binary string, args []string) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg run: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func tempOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".retrack.tmp" + ext
}
