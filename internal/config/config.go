// Package config loads the layered jsonview configuration: the embedded
// default file, an optional user file and, in cmd, changed flags.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonview/internal/theme"
	"github.com/oakwood-commons/jsonview/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embeddedFile File
	embeddedErr  error
)

// ErrUnknownOutput is returned for an unsupported -o value of the config
// command.
var ErrUnknownOutput = errors.New("unknown config output format")

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded configuration. The result is parsed once and
// copied on every call.
func Default() (File, error) {
	embeddedOnce.Do(func() {
		embeddedFile, embeddedErr = parse(embeddedDefaultConfig)
		if embeddedErr != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", embeddedErr)
			return
		}
		if embeddedFile.Theme.Default == "" || len(embeddedFile.Themes) == 0 {
			embeddedErr = errors.New("default config is missing required theme defaults")
		}
	})
	if embeddedErr != nil {
		return File{}, embeddedErr
	}
	return File{}.Merge(embeddedFile), nil
}

func parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/jsonview/config.yaml, falling back
// to ~/.config/jsonview/config.yaml. It returns "" when neither base
// directory is known.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, settings.CliBinaryName, "config.yaml")
}

// Load returns the embedded defaults merged with the user file at path.
// An explicit path must exist. With an empty path the DefaultPath file is
// used when present.
func Load(path string) (File, error) {
	cfg, err := Default()
	if err != nil {
		return File{}, err
	}
	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("read config: %w", err)
		}
		user, err := parse(data)
		if err != nil {
			return File{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg = cfg.Merge(user)
	}
	cfg.applyBuildInfo()
	cfg.processTemplates()
	return cfg, nil
}

// Merge layers over on top of f. Set fields of over win; themes merge per
// color.
func (f File) Merge(over File) File {
	out := f
	about := &out.App.About
	setString(&about.Name, over.App.About.Name)
	setString(&about.Description, over.App.About.Description)
	setString(&about.License, over.App.About.License)
	setString(&about.RepositoryURL, over.App.About.RepositoryURL)
	if len(over.App.About.Details) > 0 {
		about.Details = append([]string(nil), over.App.About.Details...)
	}

	out.Viewer = f.Viewer.Merge(over.Viewer)

	setString(&out.Output.Format, over.Output.Format)
	setString(&out.Output.Title, over.Output.Title)
	setString(&out.Output.Caption, over.Output.Caption)
	if over.Output.Width != nil {
		out.Output.Width = over.Output.Width
	}
	if over.Output.MaxString != nil {
		out.Output.MaxString = over.Output.MaxString
	}

	setString(&out.Theme.Default, over.Theme.Default)

	out.Themes = make(map[string]theme.Config, len(f.Themes)+len(over.Themes))
	for name, tc := range f.Themes {
		out.Themes[name] = tc
	}
	for name, tc := range over.Themes {
		out.Themes[name] = mergeThemeConfig(out.Themes[name], tc)
	}
	return out
}

func setString(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

func mergeThemeConfig(base, over theme.Config) theme.Config {
	out := base
	apply := func(src theme.ColorValue, dst *theme.ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	apply(over.Background, &out.Background)
	apply(over.Foreground, &out.Foreground)
	apply(over.Key, &out.Key)
	apply(over.String, &out.String)
	apply(over.Literal, &out.Literal)
	apply(over.Link, &out.Link)
	apply(over.Toggle, &out.Toggle)
	apply(over.Placeholder, &out.Placeholder)
	apply(over.SelectedFG, &out.SelectedFG)
	apply(over.SelectedBG, &out.SelectedBG)
	apply(over.Status, &out.Status)
	return out
}

// ThemeSet returns every configured palette plus the built-in fallback.
func (f File) ThemeSet() theme.Set {
	return theme.Load(f.Themes)
}

// ResolveTheme returns the palette called name, or the configured default
// when name is empty.
func (f File) ResolveTheme(name string) (theme.Theme, error) {
	if strings.TrimSpace(name) == "" {
		name = f.Theme.Default
	}
	return f.ThemeSet().Get(name)
}

func (f *File) applyBuildInfo() {
	about := &f.App.About
	about.Version = settings.VersionInformation.BuildVersion
	about.GitCommit = settings.VersionInformation.Commit
	about.GoVersion = runtime.Version()
	about.BuildOS = runtime.GOOS
	about.BuildArch = runtime.GOARCH
}

func (f *File) processTemplates() {
	about := f.App.About
	data := map[string]any{
		"config": map[string]any{
			"app": map[string]any{
				"about": map[string]any{
					"name":           about.Name,
					"description":    about.Description,
					"license":        about.License,
					"repository_url": about.RepositoryURL,
				},
			},
			"theme": map[string]any{
				"default": f.Theme.Default,
			},
		},
		"build": map[string]any{
			"version":    about.Version,
			"go_version": about.GoVersion,
			"build_os":   about.BuildOS,
			"build_arch": about.BuildArch,
			"git_commit": about.GitCommit,
		},
	}
	f.App.About.Description = processTemplateString(about.Description, data)
	if len(about.Details) > 0 {
		details := make([]string, len(about.Details))
		for i, d := range about.Details {
			details[i] = processTemplateString(d, data)
		}
		f.App.About.Details = details
	}
	f.Output.Caption = processTemplateString(f.Output.Caption, data)
}

// processTemplateString expands text/template actions in text. Text that
// fails to parse or execute is returned unchanged.
func processTemplateString(text string, data map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("config").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// Marshal encodes f as "yaml" or "json" for the config command.
func Marshal(f File, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%w %q (want yaml or json)", ErrUnknownOutput, format)
}
