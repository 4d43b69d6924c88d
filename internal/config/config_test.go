package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retrack/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RETRACK_RULES", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	wantHistory := filepath.Join(tempHome, ".local", "share", "retrack", "history.db")
	if cfg.History.Path != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, wantHistory)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadReadsFileAndEnvOverride(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RETRACK_RULES", "/etc/retrack/override.json")

	path := filepath.Join(tempHome, "config.toml")
	content := strings.Join([]string{
		`[tools]`,
		`ffmpeg = "/opt/ffmpeg/bin/ffmpeg"`,
		`ffprobe = "/opt/ffmpeg/bin/ffprobe"`,
		`[rules]`,
		`path = "~/rules.json"`,
		`[logging]`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg path: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Rules.Path != "/etc/retrack/override.json" {
		t.Fatalf("env override should win, got %q", cfg.Rules.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("tools = nonsense"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing ffmpeg")
	}

	cfg = config.Default()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad log level")
	}

	cfg = config.Default()
	cfg.History.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled history without a path")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("RETRACK_RULES", "")

	path := filepath.Join(tempHome, ".config", "retrack", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
	if !strings.HasSuffix(cfg.Rules.Path, filepath.Join(".config", "retrack", "rules.json")) {
		t.Fatalf("unexpected rules path: %q", cfg.Rules.Path)
	}
}
