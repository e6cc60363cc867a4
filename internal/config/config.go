package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"planner-cli/internal/fsutil"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"

	BackendMarkdown = "markdown"
	BackendSQLite   = "sqlite"
	BackendHTTP     = "http"
)

type Config struct {
	WorkspaceRoot string           `yaml:"workspace_root"`
	Backend       string           `yaml:"backend,omitempty"`
	RemoteURL     string           `yaml:"remote_url,omitempty"`
	PeriodicNotes PeriodicNotes    `yaml:"periodic_notes"`
	WeeklyView    WeeklyViewConfig `yaml:"weekly_view"`
	Git           GitConfig        `yaml:"git,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `yaml:"tui,omitempty"`
}

type PeriodicNotes struct {
	WeeklySubdir     string `yaml:"weekly_subdir"`
	WeeklyNameFormat string `yaml:"weekly_name_format"`
}

type WeeklyViewConfig struct {
	EnabledComponents WeeklyViewComponents `yaml:"enabled_components"`
}

type WeeklyViewComponents struct {
	HabitTracker bool `yaml:"habit_tracker"`
}

// GitConfig applies to the markdown backend when the workspace is a git
// repository.
type GitConfig struct {
	// AutoCommit commits each weekly note after a habit change.
	AutoCommit bool `yaml:"autocommit,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `yaml:"glyphs,omitempty"`
	// Theme forces the palette ("light", "dark" or "auto").
	Theme string `yaml:"theme,omitempty"`
}

func NewConfigWithDefaults() *Config {
	return &Config{
		Backend: BackendMarkdown,
		PeriodicNotes: PeriodicNotes{
			WeeklySubdir:     "_periodic/weekly",
			WeeklyNameFormat: "YYYY-[W]WW",
		},
		WeeklyView: WeeklyViewConfig{
			EnabledComponents: WeeklyViewComponents{
				HabitTracker: true,
			},
		},
	}
}

// Dir returns the planner config directory. PLANNER_CONFIG_DIR overrides the
// default (~/.notedown/planner), which also keeps tests away from $HOME.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("PLANNER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".notedown", "planner"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return FileIn(dir), nil
}

// FileIn is the config file inside dir.
func FileIn(dir string) string {
	return filepath.Join(dir, configFileName)
}

// Load reads the config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := NewConfigWithDefaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fsutil.AtomicWriteFile(path, b, 0o600)
}

func (c *Config) normalize() {
	c.WorkspaceRoot = strings.TrimSpace(c.WorkspaceRoot)
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendMarkdown
	}
	if strings.TrimSpace(c.PeriodicNotes.WeeklySubdir) == "" {
		c.PeriodicNotes.WeeklySubdir = "_periodic/weekly"
	}
	if strings.TrimSpace(c.PeriodicNotes.WeeklyNameFormat) == "" {
		c.PeriodicNotes.WeeklyNameFormat = "YYYY-[W]WW"
	}
}

// Validate checks the fields needed by the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMarkdown, BackendSQLite:
		if c.WorkspaceRoot == "" {
			return errors.New("no workspace configured; run `planner config set-workspace <dir>`")
		}
	case BackendHTTP:
		if strings.TrimSpace(c.RemoteURL) == "" {
			return errors.New("backend http requires remote_url (or --remote)")
		}
	default:
		return fmt.Errorf("unknown backend %q (want markdown|sqlite|http)", c.Backend)
	}
	return nil
}

// WeeklyDir is the directory holding weekly notes.
func (c *Config) WeeklyDir() string {
	return filepath.Join(c.WorkspaceRoot, filepath.FromSlash(c.PeriodicNotes.WeeklySubdir))
}

// ValidateWorkspacePath checks that path is an existing, writable directory.
func ValidateWorkspacePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return os.ErrNotExist
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, os.ErrInvalid)
	}
	f, err := os.CreateTemp(path, ".planner_probe_*")
	if err != nil {
		return fmt.Errorf("workspace not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
