// Package theme holds the viewer's color palettes. A palette drives both
// the stylesheet of generated HTML pages and the lipgloss styles of the
// terminal preview.
package theme

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTheme is returned when a theme name is not defined.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a resolved palette.
type Theme struct {
	Name        string
	Background  color.Color // page background
	Foreground  color.Color // brackets, separators and keys
	Key         color.Color
	String      color.Color
	Literal     color.Color // null, booleans and numbers
	Link        color.Color
	Toggle      color.Color // toggle arrows
	Placeholder color.Color // collapsed item counts
	SelectedFG  color.Color
	SelectedBG  color.Color
	Status      color.Color
}

// Fallback returns the palette used when no configuration is available.
func Fallback() Theme {
	return Theme{
		Name:        "dark",
		Background:  lipgloss.Color("#1e1e1e"),
		Foreground:  lipgloss.Color("#d4d4d4"),
		Key:         lipgloss.Color("81"),
		String:      lipgloss.Color("#ce9178"),
		Literal:     lipgloss.Color("#b5cea8"),
		Link:        lipgloss.Color("#4fc1ff"),
		Toggle:      lipgloss.Color("246"),
		Placeholder: lipgloss.Color("244"),
		SelectedFG:  lipgloss.Color("250"),
		SelectedBG:  lipgloss.Color("24"),
		Status:      lipgloss.Color("81"),
	}
}

// ColorValue stores a color token (ANSI index, name or hex) and marshals
// numeric tokens as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// Config is the YAML form of a palette. Empty fields inherit from the base
// theme.
type Config struct {
	Background  ColorValue `yaml:"background,omitempty" json:"background,omitempty"`
	Foreground  ColorValue `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Key         ColorValue `yaml:"key,omitempty" json:"key,omitempty"`
	String      ColorValue `yaml:"string,omitempty" json:"string,omitempty"`
	Literal     ColorValue `yaml:"literal,omitempty" json:"literal,omitempty"`
	Link        ColorValue `yaml:"link,omitempty" json:"link,omitempty"`
	Toggle      ColorValue `yaml:"toggle,omitempty" json:"toggle,omitempty"`
	Placeholder ColorValue `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	SelectedFG  ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG  ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	Status      ColorValue `yaml:"status,omitempty" json:"status,omitempty"`
}

// FromConfig builds the theme name from cfg over base.
func FromConfig(name string, cfg Config, base Theme) Theme {
	th := base
	th.Name = name
	set := func(val ColorValue, dst *color.Color) {
		if v := strings.TrimSpace(string(val)); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(cfg.Background, &th.Background)
	set(cfg.Foreground, &th.Foreground)
	set(cfg.Key, &th.Key)
	set(cfg.String, &th.String)
	set(cfg.Literal, &th.Literal)
	set(cfg.Link, &th.Link)
	set(cfg.Toggle, &th.Toggle)
	set(cfg.Placeholder, &th.Placeholder)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.Status, &th.Status)
	return th
}

// ConfigFromTheme converts th back into its YAML form using hex colors.
func ConfigFromTheme(th Theme) Config {
	return Config{
		Background:  ColorValue(Hex(th.Background)),
		Foreground:  ColorValue(Hex(th.Foreground)),
		Key:         ColorValue(Hex(th.Key)),
		String:      ColorValue(Hex(th.String)),
		Literal:     ColorValue(Hex(th.Literal)),
		Link:        ColorValue(Hex(th.Link)),
		Toggle:      ColorValue(Hex(th.Toggle)),
		Placeholder: ColorValue(Hex(th.Placeholder)),
		SelectedFG:  ColorValue(Hex(th.SelectedFG)),
		SelectedBG:  ColorValue(Hex(th.SelectedBG)),
		Status:      ColorValue(Hex(th.Status)),
	}
}

// Hex renders c as #rrggbb, or "" for a nil or fully transparent color.
func Hex(c color.Color) string { //nolint:gosec // RGBA channels are 16-bit; dividing by 257 scales to 8-bit
	if c == nil {
		return ""
	}
	r, g, b, a := c.RGBA()
	if a == 0 && r == 0 && g == 0 && b == 0 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r/257, g/257, b/257)
}

// Set is a collection of named themes.
type Set map[string]Theme

// Load builds a Set from configured palettes, each layered over Fallback.
func Load(cfgs map[string]Config) Set {
	set := make(Set, len(cfgs)+1)
	fb := Fallback()
	set[fb.Name] = fb
	for name, cfg := range cfgs {
		set[name] = FromConfig(name, cfg, fb)
	}
	return set
}

// Names returns the theme names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the theme called name.
func (s Set) Get(name string) (Theme, error) {
	name = strings.TrimSpace(name)
	if th, ok := s[name]; ok {
		return th, nil
	}
	return Theme{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(s.Names(), ", "))
}
