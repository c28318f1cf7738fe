// Package render converts values into the viewer's DOM and owns the
// expand/collapse state of every collapsible node it creates.
package render

import (
	"time"

	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
)

// Config is the immutable configuration of one render call.
type Config struct {
	// Collapsed starts every collapsible node collapsed.
	Collapsed bool
	// RootCollapsible gives a collapsible top-level value its own toggle.
	RootCollapsible bool
	// QuoteKeys renders mapping keys as quoted strings.
	QuoteKeys bool
	// LinkifyURLs renders URL-shaped strings as links opening a new tab.
	LinkifyURLs bool
	// SpecialBigNumbers renders arbitrary-precision numbers by their exact
	// text instead of their float64 approximation.
	SpecialBigNumbers bool
	// ChunkSize is the number of entries inserted per scheduling turn.
	ChunkSize int
	// ChunkDelay separates successive chunks of the same container.
	ChunkDelay time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		RootCollapsible: true,
		QuoteKeys:       true,
		LinkifyURLs:     true,
		ChunkSize:       999,
		ChunkDelay:      33 * time.Millisecond,
	}
}

// CSS classes forming the presentation contract with the stylesheets.
const (
	ClassDocument    = "json-document"
	ClassToggle      = "json-toggle"
	ClassDict        = "json-dict"
	ClassArray       = "json-array"
	ClassPlaceholder = "json-placeholder"
	ClassLiteral     = "json-literal"
	ClassString      = "json-string"
	ClassCollapsed   = "collapsed"
)

// Role classifies a rendered node.
type Role uint8

const (
	RoleNone Role = iota
	RoleDocument
	RoleToggle
	RoleNestedContainer
	RolePlaceholder
	RoleLiteral
	RoleString
	RoleLink
)

var roleNames = [...]string{
	RoleNone:            "none",
	RoleDocument:        "document-root",
	RoleToggle:          "toggle-control",
	RoleNestedContainer: "nested-container",
	RolePlaceholder:     "placeholder-summary",
	RoleLiteral:         "literal",
	RoleString:          "string",
	RoleLink:            "link",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "none"
}

// RoleOf returns the role of n as encoded by its tag and classes.
func RoleOf(n *html.Node) Role {
	if n == nil || n.Type != html.ElementNode {
		return RoleNone
	}
	switch {
	case dom.HasClass(n, ClassDocument):
		return RoleDocument
	case dom.HasClass(n, ClassToggle):
		return RoleToggle
	case dom.HasClass(n, ClassDict), dom.HasClass(n, ClassArray):
		return RoleNestedContainer
	case dom.HasClass(n, ClassPlaceholder):
		return RolePlaceholder
	case dom.HasClass(n, ClassLiteral):
		return RoleLiteral
	case dom.HasClass(n, ClassString):
		if n.Data == "a" {
			return RoleLink
		}
		return RoleString
	}
	return RoleNone
}
