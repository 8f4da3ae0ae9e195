package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName   = "config.yaml"
	DefaultWorkspace = "default"
)

// Config is the user-level configuration kept in <config dir>/config.yaml.
// Environment variables and CLI flags override it (see internal/cli).
type Config struct {
	// CurrentWorkspace names the workspace used when --dir/--workspace are not given.
	CurrentWorkspace string `json:"currentWorkspace,omitempty" yaml:"current_workspace,omitempty"`

	// DataDir overrides workspace resolution entirely.
	DataDir string `json:"dataDir,omitempty" yaml:"data_dir,omitempty"`

	// Backend is one of: auto|sqlite|file.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// LogLevel is a slog level name (debug|info|warn|error).
	LogLevel string `json:"logLevel,omitempty" yaml:"log_level,omitempty"`
	// LogFile defaults to <data dir>/timeline.log.
	LogFile string `json:"logFile,omitempty" yaml:"log_file,omitempty"`

	// Format is the default CLI output format: json|text.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty" yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is one of: light|dark|auto.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`
	// RenderNotes renders memory notes as markdown in the detail pane.
	RenderNotes *bool `json:"renderNotes,omitempty" yaml:"render_notes,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.timeline).
	if v := strings.TrimSpace(os.Getenv("TIMELINE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".timeline"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads the config file. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	return name, nil
}

// WorkspaceDir returns <config dir>/workspaces/<name>.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

// ListWorkspaces returns the workspace directories under <config dir>/workspaces, sorted.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
