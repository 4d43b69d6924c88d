package main

import (
	"strings"
	"testing"

	"retrack/internal/engine"
)

func TestPlanRows(t *testing.T) {
	plan := engine.CommandPlan{
		Changed: true,
		Instructions: []engine.Instruction{
			{Kind: engine.MapStream, Output: 0, Input: 1},
			{Kind: engine.CopyCodec, Output: 0},
			{Kind: engine.SetTitle, Output: 0, Value: "English Stereo"},
			{Kind: engine.MapStream, Output: 1, Input: 2},
			{Kind: engine.SetCodec, Output: 1, Value: "ac3"},
			{Kind: engine.SetBitRate, Output: 1, Number: 640000},
			{Kind: engine.SetChannels, Output: 1, Number: 6},
			{Kind: engine.SetDispositions, Output: 1, Value: "default"},
		},
	}

	rows := planRows(plan)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first[0] != "0" || first[1] != "1" || first[2] != "copy" || first[6] != "English Stereo" {
		t.Fatalf("unexpected first row: %v", first)
	}
	second := rows[1]
	if second[2] != "transcode" || second[3] != "ac3" || second[4] != "6" || second[5] != "640k" || second[7] != "default" {
		t.Fatalf("unexpected second row: %v", second)
	}
}

func TestFormatBitRate(t *testing.T) {
	if got := formatBitRate(640000); got != "640k" {
		t.Fatalf("formatBitRate(640000) = %q", got)
	}
	if got := formatBitRate(192500); got != "192500" {
		t.Fatalf("formatBitRate(192500) = %q", got)
	}
	if got := formatBitRate(0); got != "" {
		t.Fatalf("formatBitRate(0) = %q", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(engine.StatusAlreadyProcessed); got != "Already Processed" {
		t.Fatalf("statusLabel = %q", got)
	}
}

func TestQuoteArg(t *testing.T) {
	if got := quoteArg("-map"); got != "-map" {
		t.Fatalf("quoteArg(-map) = %q", got)
	}
	if got := quoteArg("title=My Movie"); got != `"title=My Movie"` {
		t.Fatalf("quoteArg with space = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"1"}},
		nil,
	)
	if !strings.Contains(out, "A") || !strings.Contains(out, "1") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mapping broken")
	}
}
