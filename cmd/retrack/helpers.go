package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"

	"retrack/internal/config"
	"retrack/internal/engine"
	"retrack/internal/media/ffprobe"
	"retrack/internal/media/source"
	"retrack/internal/rules"
)

var titleCaser = cases.Title(xlang.Und)

// loadRules reads and validates the configured rules document.
func loadRules(cfg *config.Config) (rules.RuleSet, error) {
	path := strings.TrimSpace(cfg.Rules.Path)
	if path == "" {
		return rules.RuleSet{}, errors.New("no rules file configured; set rules.path or pass --rules")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	rs, err := rules.Parse(data)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return rs, nil
}

// inspectSource probes the media file and converts the report to the
// engine's source model.
func inspectSource(ctx context.Context, cfg *config.Config, path string) (engine.Source, ffprobe.Result, error) {
	report, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, path)
	if err != nil {
		return engine.Source{}, ffprobe.Result{}, err
	}
	return source.FromProbe(report), report, nil
}

// writeJSON renders v as indented JSON on the command's stdout, for the
// --json flags that machine consumers read.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusLabel renders an engine status for table output.
func statusLabel(status engine.Status) string {
	return titleCaser.String(status.String())
}

// planRows flattens a command plan into one display row per output track.
func planRows(plan engine.CommandPlan) [][]string {
	type row struct {
		input        int
		action       string
		codec        string
		channels     string
		bitrate      string
		title        string
		dispositions string
	}

	var rows []row
	current := -1
	for _, in := range plan.Instructions {
		switch in.Kind {
		case engine.MapStream:
			rows = append(rows, row{input: in.Input})
			current = len(rows) - 1
		case engine.CopyCodec:
			if current >= 0 {
				rows[current].action = "copy"
			}
		case engine.SetCodec:
			if current >= 0 {
				rows[current].action = "transcode"
				rows[current].codec = in.Value
			}
		case engine.SetBitRate:
			if current >= 0 {
				rows[current].bitrate = formatBitRate(in.Number)
			}
		case engine.SetChannels:
			if current >= 0 {
				rows[current].channels = strconv.FormatInt(in.Number, 10)
			}
		case engine.SetTitle:
			if current >= 0 {
				rows[current].title = in.Value
			}
		case engine.SetDispositions:
			if current >= 0 {
				rows[current].dispositions = in.Value
			}
		}
	}

	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		out = append(out, []string{
			strconv.Itoa(i),
			strconv.Itoa(r.input),
			r.action,
			r.codec,
			r.channels,
			r.bitrate,
			r.title,
			r.dispositions,
		})
	}
	return out
}

func formatBitRate(bits int64) string {
	if bits <= 0 {
		return ""
	}
	if bits%1000 == 0 {
		return fmt.Sprintf("%dk", bits/1000)
	}
	return strconv.FormatInt(bits, 10)
}
