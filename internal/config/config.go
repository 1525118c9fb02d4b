package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Archive ArchiveConfig `mapstructure:"archive"`
	UI      UIConfig      `mapstructure:"ui"`
	Search  SearchConfig  `mapstructure:"search"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ArchiveConfig struct {
	// Source is a local path or an http(s) URL to the archive JSON.
	Source      string        `mapstructure:"source"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors UIColors   `mapstructure:"colors"`
	Card   CardConfig `mapstructure:"card"`
	// Theme is an optional TOML palette file overriding Colors.
	Theme string `mapstructure:"theme"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type CardConfig struct {
	MaxPreviewLength int `mapstructure:"max_preview_length"`
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

type SearchConfig struct {
	// Engine selects the ranked search backend: "memory" or "bleve".
	Engine         string `mapstructure:"engine"`
	MaxResults     int    `mapstructure:"max_results"`
	DebounceMillis int    `mapstructure:"debounce_millis"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit   string `mapstructure:"quit"`
	Search string `mapstructure:"search"`
	Filter string `mapstructure:"filter"`
	Reset  string `mapstructure:"reset"`
	Back   string `mapstructure:"back"`
	Help   string `mapstructure:"help"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Source:      "data.json",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "kako/1.0 (https://github.com/pders01/kako)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Card: CardConfig{
				MaxPreviewLength: 80,
				WordWrapMaxWidth: 120,
				WordWrapMinWidth: 40,
			},
		},
		Search: SearchConfig{
			Engine:         "memory",
			MaxResults:     20,
			DebounceMillis: 150,
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:   "q",
				Search: "s",
				Filter: "f",
				Reset:  "r",
				Back:   "esc",
				Help:   "?",
			},
		},
		Logging: LoggingConfig{
			Level: "off",
		},
	}
}

// setDefaults registers every default at leaf-key granularity. A partial
// section in the user's file must only override the keys it names, and
// viper merges with file values per key, not per section.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("archive.source", cfg.Archive.Source)
	v.SetDefault("archive.http_timeout", cfg.Archive.HTTPTimeout)
	v.SetDefault("archive.user_agent", cfg.Archive.UserAgent)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.background", cfg.UI.Colors.Background)
	v.SetDefault("ui.colors.surface", cfg.UI.Colors.Surface)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)
	v.SetDefault("ui.card.max_preview_length", cfg.UI.Card.MaxPreviewLength)
	v.SetDefault("ui.card.word_wrap_max_width", cfg.UI.Card.WordWrapMaxWidth)
	v.SetDefault("ui.card.word_wrap_min_width", cfg.UI.Card.WordWrapMinWidth)
	v.SetDefault("ui.theme", cfg.UI.Theme)

	v.SetDefault("search.engine", cfg.Search.Engine)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.debounce_millis", cfg.Search.DebounceMillis)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.search", cfg.Keys.Bindings.Search)
	v.SetDefault("keys.bindings.filter", cfg.Keys.Bindings.Filter)
	v.SetDefault("keys.bindings.reset", cfg.Keys.Bindings.Reset)
	v.SetDefault("keys.bindings.back", cfg.Keys.Bindings.Back)
	v.SetDefault("keys.bindings.help", cfg.Keys.Bindings.Help)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "kako")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("KAKO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path.
// URLs pass through untouched.
func expandPath(path string) string {
	if path == "" || isURL(path) {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Archive.Source = expandPath(cfg.Archive.Source)
	// A bare value names a built-in palette, not a file.
	if looksLikePath(cfg.UI.Theme) {
		cfg.UI.Theme = expandPath(cfg.UI.Theme)
	}
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

func looksLikePath(s string) bool {
	return strings.ContainsAny(s, `/\`) ||
		strings.HasPrefix(s, "~") ||
		strings.HasSuffix(s, ".toml")
}

func isURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}

// Save writes config to the given path in TOML format.
func Save(config *Config, path string) error {
	v := viper.New()

	archiveCfg := map[string]interface{}{
		"source":       config.Archive.Source,
		"http_timeout": config.Archive.HTTPTimeout.String(),
		"user_agent":   config.Archive.UserAgent,
	}

	v.Set("archive", archiveCfg)
	v.Set("ui", config.UI)
	v.Set("search", config.Search)
	v.Set("keys", config.Keys)
	v.Set("logging", config.Logging)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// GenerateDefaultConfig writes the default configuration to path.
func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
