package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Archive.Source != "data.json" {
		t.Errorf("expected default source data.json, got %q", cfg.Archive.Source)
	}
	if cfg.Archive.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Archive.HTTPTimeout)
	}
	if cfg.Search.Engine != "memory" {
		t.Errorf("expected memory engine, got %q", cfg.Search.Engine)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected 20 max results, got %d", cfg.Search.MaxResults)
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("expected ctrl modifier, got %q", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Search != "s" {
		t.Errorf("expected search binding s, got %q", cfg.Keys.Bindings.Search)
	}
	if cfg.UI.Colors.Primary == "" {
		t.Error("expected a default primary color")
	}
	if cfg.Logging.Level != "off" {
		t.Errorf("expected logging off by default, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		// viper reports a missing explicit file as an error; either outcome
		// is acceptable as long as defaults survive when it loads.
		if cfg.Search.Engine != "memory" {
			t.Errorf("expected default engine, got %q", cfg.Search.Engine)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[archive]
source = "https://example.test/logs.json"
user_agent = "custom-agent/2.0"

[search]
engine = "bleve"
max_results = 50

[keys]
modifier = "alt"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Archive.Source != "https://example.test/logs.json" {
		t.Errorf("expected URL source untouched, got %q", cfg.Archive.Source)
	}
	if cfg.Archive.UserAgent != "custom-agent/2.0" {
		t.Errorf("expected custom user agent, got %q", cfg.Archive.UserAgent)
	}
	if cfg.Search.Engine != "bleve" {
		t.Errorf("expected bleve engine, got %q", cfg.Search.Engine)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("expected 50 max results, got %d", cfg.Search.MaxResults)
	}
	if cfg.Keys.Modifier != "alt" {
		t.Errorf("expected alt modifier, got %q", cfg.Keys.Modifier)
	}
	// Keys a partial section leaves out keep their defaults.
	if cfg.Search.DebounceMillis != 150 {
		t.Errorf("expected default debounce, got %d", cfg.Search.DebounceMillis)
	}
	if cfg.Archive.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Archive.HTTPTimeout)
	}
	if cfg.Keys.Bindings.Search != "s" {
		t.Errorf("expected default search binding, got %q", cfg.Keys.Bindings.Search)
	}
}

func TestPartialSectionKeepsSiblingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search]
engine = "bleve"

[archive]
source = "https://example.test/logs.json"

[ui.colors]
primary = "#101010"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected default max results, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.DebounceMillis != 150 {
		t.Errorf("expected default debounce, got %d", cfg.Search.DebounceMillis)
	}
	if cfg.Archive.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Archive.HTTPTimeout)
	}
	if cfg.Archive.UserAgent == "" {
		t.Error("expected default user agent to survive a partial [archive] section")
	}
	if cfg.UI.Colors.Primary != "#101010" {
		t.Errorf("expected overridden primary, got %q", cfg.UI.Colors.Primary)
	}
	if cfg.UI.Colors.Muted != "#94A3B8" {
		t.Errorf("expected default muted color, got %q", cfg.UI.Colors.Muted)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := expandPath("~/archive.json")
	if got != filepath.Join(home, "archive.json") {
		t.Errorf("tilde expansion failed: %q", got)
	}

	url := "https://example.test/data.json"
	if expandPath(url) != url {
		t.Errorf("URL should pass through untouched")
	}

	if expandPath("") != "" {
		t.Error("empty path should stay empty")
	}

	rel := expandPath("data.json")
	if !filepath.IsAbs(rel) {
		t.Errorf("relative path should become absolute, got %q", rel)
	}
}

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"dusk", false},
		{"ink", false},
		{"", false},
		{"~/themes/dusk.toml", true},
		{"./dusk.toml", true},
		{"themes/dusk", true},
		{"dusk.toml", true},
		{`C:\themes\dusk.toml`, true},
	}
	for _, tt := range tests {
		if got := looksLikePath(tt.in); got != tt.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandPathsLeavesThemeNamesAlone(t *testing.T) {
	cfg := defaultConfig()
	cfg.UI.Theme = "dusk"
	expandPaths(cfg)
	if cfg.UI.Theme != "dusk" {
		t.Errorf("bare theme name should pass through, got %q", cfg.UI.Theme)
	}

	cfg = defaultConfig()
	cfg.UI.Theme = "./dusk.toml"
	expandPaths(cfg)
	if !filepath.IsAbs(cfg.UI.Theme) {
		t.Errorf("theme file path should become absolute, got %q", cfg.UI.Theme)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := defaultConfig()
	cfg.Archive.Source = "/var/lib/kako/data.json"
	cfg.Search.Engine = "bleve"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Archive.Source != "/var/lib/kako/data.json" {
		t.Errorf("source not round-tripped: %q", reloaded.Archive.Source)
	}
	if reloaded.Search.Engine != "bleve" {
		t.Errorf("engine not round-tripped: %q", reloaded.Search.Engine)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := GenerateDefaultConfig(path); err != nil {
		t.Fatalf("GenerateDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading generated config: %v", err)
	}
	if !strings.Contains(string(data), "[archive]") {
		t.Error("generated config missing [archive] section")
	}
	if !strings.Contains(string(data), "[keys]") {
		t.Error("generated config missing [keys] section")
	}
}

func TestIsURL(t *testing.T) {
	cases := map[string]bool{
		"http://example.test/a.json":  true,
		"https://example.test/a.json": true,
		"/tmp/a.json":                 false,
		"data.json":                   false,
		"http://":                     false,
	}
	for in, want := range cases {
		if got := isURL(in); got != want {
			t.Errorf("isURL(%q) = %v, want %v", in, got, want)
		}
	}
}
