package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/internal/render"
	"github.com/oakwood-commons/jsonview/internal/theme"
)

const (
	expandedArrow  = "▾ "
	collapsedArrow = "▸ "
)

// TextOptions controls the terminal rendering of a viewer document.
type TextOptions struct {
	Styles theme.Styles
	// Width truncates every line; 0 disables.
	Width int
	// MaxString truncates string values, quotes included; 0 disables.
	MaxString int
	// Indent is repeated once per nesting level. Defaults to two spaces.
	Indent string
}

// Line is one output line of a rendered document.
type Line struct {
	Depth  int
	Plain  string
	Styled string
	// Toggle is the toggle anchor on this line, if any. A line holds at
	// most one.
	Toggle *html.Node
}

// Lines lays out the document under container one entry per line,
// following the collapse state recorded in the DOM: collapsed containers
// show their placeholder instead of their entries.
func Lines(container *html.Node, opts TextOptions) []Line {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	b := &lineBuilder{opts: opts}
	if container == nil {
		return nil
	}
	b.start(0)
	b.inline(container, 0)
	b.flush()
	return b.lines
}

// Text renders the document under container as newline-terminated lines.
// With plain set no ANSI styling is emitted.
func Text(container *html.Node, opts TextOptions, plain bool) string {
	var sb strings.Builder
	for _, l := range Lines(container, opts) {
		if plain {
			sb.WriteString(l.Plain)
		} else {
			sb.WriteString(l.Styled)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type lineBuilder struct {
	opts   TextOptions
	lines  []Line
	depth  int
	open   bool
	plain  strings.Builder
	styled strings.Builder
	toggle *html.Node
}

func (b *lineBuilder) start(depth int) {
	b.flush()
	b.depth = depth
	b.open = true
}

func (b *lineBuilder) flush() {
	if !b.open {
		return
	}
	b.open = false
	if b.plain.Len() == 0 {
		b.toggle = nil
		return
	}
	indent := strings.Repeat(b.opts.Indent, b.depth)
	b.lines = append(b.lines, Line{
		Depth:  b.depth,
		Plain:  truncate(indent+b.plain.String(), b.opts.Width),
		Styled: truncateStyled(indent+b.styled.String(), b.opts.Width),
		Toggle: b.toggle,
	})
	b.plain.Reset()
	b.styled.Reset()
	b.toggle = nil
}

func (b *lineBuilder) write(text string, style lipgloss.Style) {
	if text == "" {
		return
	}
	b.plain.WriteString(text)
	b.styled.WriteString(style.Render(text))
}

// inline writes the children of parent, an entry or the document root,
// breaking lines around expanded containers.
func (b *lineBuilder) inline(parent *html.Node, depth int) {
	st := b.opts.Styles
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.text(c.Data)
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}
		switch {
		case dom.HasClass(c, render.ClassToggle):
			arrow := expandedArrow
			if dom.HasClass(c, render.ClassCollapsed) {
				arrow = collapsedArrow
			}
			b.write(arrow, st.Toggle)
			if b.toggle == nil {
				b.toggle = c
			}
		case dom.HasClass(c, render.ClassLiteral):
			b.write(dom.TextContent(c), st.Literal)
		case dom.HasClass(c, render.ClassString):
			style := st.String
			if c.Data == "a" {
				style = st.Link
			}
			b.write(truncate(dom.TextContent(c), b.opts.MaxString), style)
		case dom.HasClass(c, render.ClassPlaceholder):
			b.write(dom.TextContent(c), st.Placeholder)
		case dom.HasClass(c, render.ClassArray), dom.HasClass(c, render.ClassDict):
			if dom.HasClass(c, render.ClassCollapsed) {
				continue
			}
			for _, li := range dom.ChildElements(c) {
				b.start(depth + 1)
				b.inline(li, depth+1)
			}
			b.start(depth)
		}
	}
}

// text writes a key prefix or punctuation.
func (b *lineBuilder) text(s string) {
	if key, ok := strings.CutSuffix(s, ": "); ok {
		b.write(key, b.opts.Styles.Key)
		b.write(": ", b.opts.Styles.Punctuation)
		return
	}
	b.write(s, b.opts.Styles.Punctuation)
}
