package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, ".chainsight")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectOverridesUser(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MODEL_NAME", "")
	t.Setenv("PROJECT_ID", "")
	t.Setenv("LOCATION", "")
	t.Chdir(project)

	writeConfig(t, home, "llm: gemini\nmodel: gemini-pro\nverbose: true\n")
	writeConfig(t, project, "model: gemini-1.5-pro\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("Expected provider 'gemini' from user config, got '%s'", cfg.Provider)
	}
	if cfg.Model != "gemini-1.5-pro" {
		t.Errorf("Expected project config to override model, got '%s'", cfg.Model)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose from user config to survive the merge")
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MODEL_NAME", "")
	t.Setenv("PROJECT_ID", "")
	t.Setenv("LOCATION", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != "" || cfg.Model != "" {
		t.Errorf("Expected empty config, got provider '%s' model '%s'", cfg.Provider, cfg.Model)
	}
}

func TestLoadHidesOwnConfigDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	found := map[string]bool{}
	for _, p := range cfg.FilesystemAccess.Hidden {
		found[p] = true
	}
	if !found[".chainsight"] || !found[".chainsight/**"] {
		t.Errorf("Expected config directory in hidden globs, got %v", cfg.FilesystemAccess.Hidden)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_NAME", "gemini-1.5-flash")
	t.Setenv("PROJECT_ID", "my-project")
	t.Setenv("LOCATION", "us-central1")

	cfg := &Config{Model: "from-file", Project: "old", Location: "old"}
	cfg.applyEnv()

	if cfg.Model != "gemini-1.5-flash" {
		t.Errorf("Expected MODEL_NAME override, got '%s'", cfg.Model)
	}
	if cfg.Project != "my-project" {
		t.Errorf("Expected PROJECT_ID override, got '%s'", cfg.Project)
	}
	if cfg.Location != "us-central1" {
		t.Errorf("Expected LOCATION override, got '%s'", cfg.Location)
	}
}

func TestGetToolset(t *testing.T) {
	cfg := &Config{Toolsets: []Toolset{
		{Name: "default", Tools: []string{"read_file"}},
		{Name: "full", Tools: []string{"read_file", "execute_command"}},
	}}

	ts, err := cfg.GetToolset("full")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ts.Name != "full" {
		t.Errorf("Expected toolset 'full', got '%s'", ts.Name)
	}

	// Unknown names fall back to the default toolset.
	ts, err = cfg.GetToolset("nonexistent")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ts.Name != "default" {
		t.Errorf("Expected fallback to 'default', got '%s'", ts.Name)
	}

	// An empty name means the default toolset.
	ts, err = cfg.GetToolset("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ts.Name != "default" {
		t.Errorf("Expected 'default' for empty name, got '%s'", ts.Name)
	}
}

func TestGetToolsetMissingDefault(t *testing.T) {
	cfg := &Config{}

	if _, err := cfg.GetToolset(""); err == nil {
		t.Fatal("Expected error when no default toolset exists")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	writeConfig(t, project, "model: [unclosed\n")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}
