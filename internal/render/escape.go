package render

import (
	"strings"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// HTMLEscape replaces the five markup-significant characters with their
// entities. The replacement is a single pass, so entities produced for one
// character are never re-escaped as ampersands.
func HTMLEscape(s string) string {
	return htmlReplacer.Replace(s)
}

var urlSchemes = []string{"http://", "https://", "ftp://", "ftps://"}

// IsURL reports whether s starts with one of the linkable schemes. No other
// validation is done.
func IsURL(s string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// IsCollapsible reports whether v is a list or mapping with at least one
// entry.
func IsCollapsible(v value.Value) bool {
	return v.IsContainer() && v.Len() > 0
}

// IsBigNumberLike reports whether v was normalized from an
// arbitrary-precision number wrapper.
func IsBigNumberLike(v value.Value) bool {
	return v.Kind() == value.BigNumber
}
