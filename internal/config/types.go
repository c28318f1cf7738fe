package config

import (
	"github.com/oakwood-commons/jsonview/internal/theme"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

// File is the layered configuration: embedded defaults, then the user
// file, then command-line flags.
type File struct {
	App    AppConfig               `yaml:"app,omitempty" json:"app,omitempty"`
	Viewer viewer.Options          `yaml:"viewer,omitempty" json:"viewer,omitempty"`
	Output OutputConfig            `yaml:"output,omitempty" json:"output,omitempty"`
	Theme  ThemeSelection          `yaml:"theme,omitempty" json:"theme,omitempty"`
	Themes map[string]theme.Config `yaml:"themes,omitempty" json:"themes,omitempty"`
}

type AppConfig struct {
	About AboutConfig `yaml:"about,omitempty" json:"about,omitempty"`
}

// AboutConfig describes the binary. Version and the build fields are filled
// from build information at load time and are not read from files.
type AboutConfig struct {
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	License       string   `yaml:"license,omitempty" json:"license,omitempty"`
	RepositoryURL string   `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
	Details       []string `yaml:"details,omitempty" json:"details,omitempty"`

	Version   string `yaml:"-" json:"-"`
	GoVersion string `yaml:"-" json:"-"`
	BuildOS   string `yaml:"-" json:"-"`
	BuildArch string `yaml:"-" json:"-"`
	GitCommit string `yaml:"-" json:"-"`
}

// OutputConfig controls how the rendered tree is written.
type OutputConfig struct {
	// Format is auto, html, fragment or text.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// Width of the text preview; 0 uses the terminal width.
	Width *int `yaml:"width,omitempty" json:"width,omitempty"`
	// MaxString truncates long strings in the text preview; 0 disables.
	MaxString *int   `yaml:"max_string,omitempty" json:"max_string,omitempty"`
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	// Caption is markdown shown above the tree in HTML pages.
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
}

type ThemeSelection struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}
