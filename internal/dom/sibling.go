package dom

import "golang.org/x/net/html"

// FindSibling looks for the element sibling of n identified by marker,
// matching either its id attribute or one of its classes. Preceding
// siblings are scanned nearest first, then following siblings nearest
// first. It returns nil when nothing matches.
func FindSibling(n *html.Node, marker string) *html.Node {
	if n == nil || marker == "" {
		return nil
	}
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if matches(s, marker) {
			return s
		}
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if matches(s, marker) {
			return s
		}
	}
	return nil
}

func matches(n *html.Node, marker string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if id, ok := Attr(n, "id"); ok && id == marker {
		return true
	}
	return HasClass(n, marker)
}
