package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/pkg/value"
)

func appendSpan(parent *html.Node, text, class string) *html.Node {
	span := dom.Append(parent, dom.Element("span", class))
	dom.Append(span, dom.Text(text))
	return span
}

func appendLiteral(parent *html.Node, text string) *html.Node {
	return appendSpan(parent, text, ClassLiteral)
}

func appendString(parent *html.Node, text string) *html.Node {
	return appendSpan(parent, text, ClassString)
}

// appendLink adds a link to href opening in a new browsing context.
func appendLink(parent *html.Node, href, text string) *html.Node {
	a := dom.Append(parent, dom.Element("a", ClassString))
	dom.SetAttr(a, "href", href)
	dom.SetAttr(a, "target", "_blank")
	dom.SetAttr(a, "rel", "noopener noreferrer")
	dom.Append(a, dom.Text(text))
	return a
}

func newToggle() *html.Node {
	a := dom.Element("a", ClassToggle)
	dom.SetAttr(a, "href", "#")
	return a
}

// insertPlaceholder puts the collapsed summary right after the nested
// container it stands in for.
func insertPlaceholder(container *html.Node, count int) *html.Node {
	a := dom.Element("a", ClassPlaceholder)
	dom.SetAttr(a, "href", "#")
	dom.Append(a, dom.Text(placeholderText(count)))
	return dom.InsertAfter(container, a)
}

func placeholderText(count int) string {
	s := strconv.Itoa(count) + " item"
	if count > 1 {
		s += "s"
	}
	return s
}

func (r *Renderer) keyText(key string) string {
	if r.cfg.QuoteKeys {
		return value.QuoteString(key) + ": "
	}
	return key + ": "
}

// buildListItem appends one container entry: an optional toggle, an
// optional key prefix, the rendered value and a separator unless last.
func (r *Renderer) buildListItem(parent *html.Node, v value.Value, isLast, keyed bool, key string) *html.Node {
	li := dom.Append(parent, dom.Element("li"))
	owner := NoNode
	if IsCollapsible(v) {
		owner = r.ctrl.Register(dom.Append(li, newToggle()))
	}
	if keyed {
		dom.Append(li, dom.Text(r.keyText(key)))
	}
	r.Render(li, v, owner)
	if !isLast {
		dom.Append(li, dom.Text(","))
	}
	return li
}
