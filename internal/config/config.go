package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external binaries the tool shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Rules locates the rule document.
type Rules struct {
	Path string `toml:"path"`
}

// History configures the run journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Output configures how applied files are written.
type Output struct {
	KeepOriginal bool `toml:"keep_original"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Tools   Tools   `toml:"tools"`
	Rules   Rules   `toml:"rules"`
	History History `toml:"history"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools:   Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		History: History{Enabled: true, Path: "~/.local/share/retrack/history.db"},
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// DefaultConfigPath returns the standard location of the config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "retrack", "config.toml"), nil
}

// ExpandPath resolves a leading "~" against the user's home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// Load reads the configuration from path, falling back to the default
// location when path is empty. It returns the configuration, the path it
// resolved, and whether a file existed there; a missing file yields the
// defaults rather than an error. RETRACK_RULES overrides the rules path
// after loading.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	var err error
	if resolved == "" {
		resolved, err = DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
	} else if resolved, err = ExpandPath(resolved); err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	exists := false
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		exists = true
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply.
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if env := strings.TrimSpace(os.Getenv("RETRACK_RULES")); env != "" {
		cfg.Rules.Path = env
	}
	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	return cfg, resolved, exists, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Rules.Path, err = ExpandPath(c.Rules.Path); err != nil {
		return err
	}
	if c.History.Path, err = ExpandPath(c.History.Path); err != nil {
		return err
	}
	return nil
}

// EnsureDirectories creates the directories the configuration points at.
func (c *Config) EnsureDirectories() error {
	if !c.History.Enabled || strings.TrimSpace(c.History.Path) == "" {
		return nil
	}
	dir := filepath.Dir(c.History.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure history directory %s: %w", dir, err)
	}
	return nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
