package render

import (
	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
)

// Hydrate rebuilds a Controller for a tree that was rendered earlier,
// serialized and parsed back, so it carries no node records. Toggles,
// nested containers and placeholders are siblings in the rendered markup;
// each toggle is paired with its container and placeholder by sibling
// search, and the collapsed class restores the state.
func Hydrate(root *html.Node, events *dom.Events, lgr logr.Logger) *Controller {
	ctrl := NewController(events, lgr)
	dom.Walk(root, func(n *html.Node) bool {
		if !dom.HasClass(n, ClassToggle) {
			return true
		}
		id := ctrl.Register(n)
		container := dom.FindSibling(n, ClassArray)
		if container == nil {
			container = dom.FindSibling(n, ClassDict)
		}
		if container == nil {
			lgr.V(1).Info("toggle without nested container", "node", int(id))
			return true
		}
		state := Expanded
		if dom.HasClass(n, ClassCollapsed) {
			state = Collapsed
		}
		ctrl.adopt(id, container, dom.FindSibling(container, ClassPlaceholder), state)
		return true
	})
	return ctrl
}
