package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("TIMELINE_CONFIG_DIR", cfgDir)

	// Missing file => empty config.
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != "" || cfg.TUI != nil {
		t.Fatalf("expected empty config, got %#v", cfg)
	}

	render := false
	want := &Config{CurrentWorkspace: "trips", Backend: BackendFile, LogLevel: "debug", TUI: &TUIConfig{Theme: "dark", RenderNotes: &render}}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(cfgDir, "config.yaml"))
	if err != nil {
		t.Fatalf("read config.yaml: %v", err)
	}
	if !strings.Contains(string(b), "current_workspace: trips") {
		t.Fatalf("expected yaml keys, got:\n%s", b)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.CurrentWorkspace != "trips" || got.Backend != BackendFile || got.TUI == nil || got.TUI.Theme != "dark" || got.TUI.RenderNotes == nil || *got.TUI.RenderNotes {
		t.Fatalf("unexpected round trip: %#v", got)
	}
}

func TestConfig_InvalidYAMLIsAnError(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("TIMELINE_CONFIG_DIR", cfgDir)
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("backend: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWorkspaceDir_AndList(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("TIMELINE_CONFIG_DIR", cfgDir)

	for _, bad := range []string{"", "  ", "a/b", `a\\b`, ".", ".."} {
		if _, err := WorkspaceDir(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}

	ws, err := ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(ws) != 0 {
		t.Fatalf("expected no workspaces yet, got %v", ws)
	}

	for _, name := range []string{"trips", "default"} {
		dir, err := WorkspaceDir(name)
		if err != nil {
			t.Fatalf("WorkspaceDir: %v", err)
		}
		if dir != filepath.Join(cfgDir, "workspaces", name) {
			t.Fatalf("unexpected dir %q", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	ws, err = ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(ws) != 2 || ws[0] != "default" || ws[1] != "trips" {
		t.Fatalf("unexpected workspaces: %#v", ws)
	}
}
