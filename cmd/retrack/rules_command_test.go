package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRulesDoc = `[
  {
    "name": "keep english",
    "match": {"codecs": "*", "languages": ["eng"]},
    "operations": [{"copy": {}}]
  },
  {
    "name": "drop the rest",
    "match": {"codecs": "*"},
    "operations": []
  }
]`

func writeTestRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(testRulesDoc), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	return path
}

func TestRulesLint(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RETRACK_RULES", writeTestRules(t))

	out, err := runCommand(t, "rules", "lint")
	if err != nil {
		t.Fatalf("rules lint failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 rules OK") {
		t.Fatalf("expected rule count:\n%s", out)
	}
	if !strings.Contains(out, "keep english") || !strings.Contains(out, "drop") {
		t.Fatalf("expected rule rows:\n%s", out)
	}
}

func TestRulesToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RETRACK_RULES", writeTestRules(t))

	out, err := runCommand(t, "rules", "token")
	if err != nil {
		t.Fatalf("rules token failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "[retrack ") {
		t.Fatalf("expected watermark output:\n%s", out)
	}
}

func TestRulesLintReportsParseErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(`[{"match": {"codecs": "*"}, "operations": [{}]}]`), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	t.Setenv("RETRACK_RULES", path)

	if _, err := runCommand(t, "rules", "lint"); err == nil {
		t.Fatal("expected lint to fail on an empty operation")
	}
}
