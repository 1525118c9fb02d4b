package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/kako/internal/config"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	names := r.Names()
	assert.Contains(t, names, "dusk")
	assert.Contains(t, names, "paper")
	assert.Contains(t, names, "ink")
}

func TestLookup(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	p, ok := r.Lookup("ink")
	require.True(t, ok)
	assert.Equal(t, "#000000", p.Background)
	assert.NotEmpty(t, p.Description)

	_, ok = r.Lookup("no-such-theme")
	assert.False(t, ok)
}

func TestResolveWithoutTheme(t *testing.T) {
	cfg := config.TestConfig()
	cfg.UI.Theme = ""

	colors, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.UI.Colors, colors)
}

func TestResolveBuiltinPalette(t *testing.T) {
	cfg := config.TestConfig()
	cfg.UI.Theme = "ink"

	colors, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "#000000", colors.Background)

	cfg.UI.Theme = "dusk"
	colors, err = Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "#FF6B6B", colors.Primary)
	assert.Equal(t, "#EAEAEA", colors.Text)
}

func TestResolvePartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
primary = "#112233"
error = "#FF0000"
`), 0o644))

	cfg := config.TestConfig()
	cfg.UI.Theme = path

	colors, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "#112233", colors.Primary)
	assert.Equal(t, "#FF0000", colors.Error)
	// Colors the theme file does not name keep their config values.
	assert.Equal(t, cfg.UI.Colors.Secondary, colors.Secondary)
	assert.Equal(t, cfg.UI.Colors.Text, colors.Text)
}

func TestResolveMissingThemeFile(t *testing.T) {
	cfg := config.TestConfig()
	cfg.UI.Theme = filepath.Join(t.TempDir(), "absent.toml")

	colors, err := Resolve(cfg)
	assert.Error(t, err)
	// Defaults still come back usable.
	assert.Equal(t, cfg.UI.Colors, colors)
}

func TestResolveMalformedThemeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte(`primary = [not toml`), 0o644))

	cfg := config.TestConfig()
	cfg.UI.Theme = path

	_, err := Resolve(cfg)
	assert.Error(t, err)
}
