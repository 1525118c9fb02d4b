// Package theme resolves the UI color palette. Built-in palettes ship as
// embedded TOML; a user-supplied theme file overrides individual colors.
package theme

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/kako/internal/config"
)

//go:embed themes.toml
var themesTOML []byte

// Palette is a named set of UI colors. Empty fields fall back to the
// config defaults.
type Palette struct {
	Description string `toml:"description"`
	Primary     string `toml:"primary"`
	Secondary   string `toml:"secondary"`
	Accent      string `toml:"accent"`
	Background  string `toml:"background"`
	Surface     string `toml:"surface"`
	Text        string `toml:"text"`
	Muted       string `toml:"muted"`
	Error       string `toml:"error"`
	Success     string `toml:"success"`
}

type themesFile struct {
	Themes map[string]Palette `toml:"themes"`
}

// Registry holds the built-in palettes.
type Registry struct {
	themes map[string]Palette
}

// NewRegistry parses the embedded theme definitions.
func NewRegistry() (*Registry, error) {
	var file themesFile
	if err := toml.Unmarshal(themesTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing themes.toml: %w", err)
	}
	return &Registry{themes: file.Themes}, nil
}

// Names lists the built-in palette names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	return names
}

// Lookup returns a built-in palette by name.
func (r *Registry) Lookup(name string) (Palette, bool) {
	p, ok := r.themes[name]
	return p, ok
}

// Resolve produces the effective colors: config defaults, then the theme
// named in config. A bare name selects a built-in palette; anything else
// is read as a theme file. A missing theme file is an error; a partial
// one overrides only the colors it names.
func Resolve(cfg *config.Config) (config.UIColors, error) {
	colors := cfg.UI.Colors
	if cfg.UI.Theme == "" {
		return colors, nil
	}

	reg, err := NewRegistry()
	if err != nil {
		return colors, err
	}
	if p, ok := reg.Lookup(cfg.UI.Theme); ok {
		apply(&colors, p)
		return colors, nil
	}

	data, err := os.ReadFile(cfg.UI.Theme)
	if err != nil {
		return colors, fmt.Errorf("reading theme file: %w", err)
	}

	var p Palette
	if err := toml.Unmarshal(data, &p); err != nil {
		return colors, fmt.Errorf("parsing theme file: %w", err)
	}

	apply(&colors, p)
	return colors, nil
}

func apply(colors *config.UIColors, p Palette) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&colors.Primary, p.Primary)
	set(&colors.Secondary, p.Secondary)
	set(&colors.Accent, p.Accent)
	set(&colors.Background, p.Background)
	set(&colors.Surface, p.Surface)
	set(&colors.Text, p.Text)
	set(&colors.Muted, p.Muted)
	set(&colors.Error, p.Error)
	set(&colors.Success, p.Success)
}
