package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonview/internal/theme"
	"github.com/oakwood-commons/jsonview/pkg/settings"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultMatchesViewerDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, viewer.Defaults(), cfg.Viewer.Apply(viewer.Config{}))
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.Equal(t, "JSON", cfg.Output.Title)
	assert.Equal(t, "dark", cfg.Theme.Default)
	assert.Contains(t, cfg.Themes, "dark")
	assert.Contains(t, cfg.Themes, "light")
	assert.Equal(t, settings.CliBinaryName, cfg.App.About.Name)
}

func TestDefaultReturnsCopies(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	a.Themes["scratch"] = theme.Config{}
	a.App.About.Details[0] = "changed"

	b, err := Default()
	require.NoError(t, err)
	assert.NotContains(t, b.Themes, "scratch")
	assert.NotEqual(t, "changed", b.App.About.Details[0])
}

func TestDefaultYAMLIsCopy(t *testing.T) {
	data := DefaultYAML()
	require.NotEmpty(t, data)
	data[0] = '#'
	assert.NotEqual(t, byte('#'), DefaultYAML()[0])
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `
viewer:
  collapsed: true
  chunkSize: 50
output:
  format: html
  caption: "Built by **{{ .config.app.about.name }}**"
theme:
  default: light
themes:
  light:
    key: "#ff0000"
  custom:
    string: "81"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	vc := cfg.Viewer.Apply(viewer.Config{})
	assert.True(t, vc.Collapsed)
	assert.Equal(t, 50, vc.ChunkSize)
	assert.True(t, vc.QuoteKeys, "unset fields keep defaults")

	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, "JSON", cfg.Output.Title)
	assert.Equal(t, "Built by **jsonview**", cfg.Output.Caption)

	assert.Equal(t, theme.ColorValue("#ff0000"), cfg.Themes["light"].Key)
	assert.Equal(t, theme.ColorValue("#0a3069"), cfg.Themes["light"].String, "other colors survive")
	assert.Equal(t, theme.ColorValue("81"), cfg.Themes["custom"].String)

	th, err := cfg.ResolveTheme("")
	require.NoError(t, err)
	assert.Equal(t, "light", th.Name)
	assert.Equal(t, "#ff0000", theme.Hex(th.Key))
}

func TestLoadBuildInfo(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	about := cfg.App.About
	assert.Equal(t, settings.VersionInformation.BuildVersion, about.Version)
	assert.Equal(t, runtime.GOOS, about.BuildOS)
	require.NotEmpty(t, about.Details)
	assert.Equal(t, "Version: "+settings.VersionInformation.BuildVersion, about.Details[0])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "viewer: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestLoadUsesXDGConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jsonview"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jsonview", "config.yaml"), []byte("output:\n  title: From XDG\n"), 0o600))

	assert.Equal(t, filepath.Join(dir, "jsonview", "config.yaml"), DefaultPath())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "From XDG", cfg.Output.Title)
}

func TestLoadWithoutUserFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "JSON", cfg.Output.Title)
}

func TestResolveThemeUnknown(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	_, err = cfg.ResolveTheme("neon")
	require.ErrorIs(t, err, theme.ErrUnknownTheme)
	assert.Contains(t, err.Error(), "dark, light")
}

func TestProcessTemplateString(t *testing.T) {
	data := map[string]any{"build": map[string]any{"version": "v1"}}
	assert.Equal(t, "plain", processTemplateString("plain", data))
	assert.Equal(t, "v=v1", processTemplateString("v={{ .build.version }}", data))
	assert.Equal(t, "{{ broken", processTemplateString("{{ broken", data))
}

func TestMarshal(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	out, err := Marshal(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  chunkSize: 999\n")
	assert.NotContains(t, string(out), "build_os", "build fields stay out")

	var back File
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Viewer.Apply(viewer.Config{}), back.Viewer.Apply(viewer.Config{}))

	out, err = Marshal(cfg, "JSON")
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
	assert.True(t, strings.HasSuffix(string(out), "}\n"))

	_, err = Marshal(cfg, "toml")
	assert.ErrorIs(t, err, ErrUnknownOutput)
}
