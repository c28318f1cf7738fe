package theme

import "charm.land/lipgloss/v2"

// Styles are the terminal styles derived from a theme.
type Styles struct {
	Key         lipgloss.Style
	String      lipgloss.Style
	Literal     lipgloss.Style
	Link        lipgloss.Style
	Toggle      lipgloss.Style
	Placeholder lipgloss.Style
	Punctuation lipgloss.Style
	Selected    lipgloss.Style
	Status      lipgloss.Style
}

// Styles returns the terminal styles for th. With noColor every style is
// plain except the selection, which falls back to reverse video.
func (th Theme) Styles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Key:         plain,
			String:      plain,
			Literal:     plain,
			Link:        plain,
			Toggle:      plain,
			Placeholder: plain,
			Punctuation: plain,
			Selected:    plain.Reverse(true),
			Status:      plain,
		}
	}
	return Styles{
		Key:         lipgloss.NewStyle().Foreground(th.Key),
		String:      lipgloss.NewStyle().Foreground(th.String),
		Literal:     lipgloss.NewStyle().Foreground(th.Literal),
		Link:        lipgloss.NewStyle().Foreground(th.Link).Underline(true),
		Toggle:      lipgloss.NewStyle().Foreground(th.Toggle),
		Placeholder: lipgloss.NewStyle().Foreground(th.Placeholder).Italic(true),
		Punctuation: lipgloss.NewStyle().Foreground(th.Foreground),
		Selected:    lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG),
		Status:      lipgloss.NewStyle().Foreground(th.Status).Bold(true),
	}
}
