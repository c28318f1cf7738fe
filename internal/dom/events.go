package dom

import "golang.org/x/net/html"

// EventType names a dispatchable event.
type EventType string

// Click is the activation event used by toggles and placeholders.
const Click EventType = "click"

// Handler reacts to an event dispatched on its target.
type Handler func(target *html.Node)

// Events is an event registry scoped to a single widget instance. Handlers
// are keyed by target node, so instances rendering into different
// containers never observe each other's events, and Reset tears every
// registration down at once.
type Events struct {
	handlers map[*html.Node]map[EventType][]Handler
}

// NewEvents returns an empty registry.
func NewEvents() *Events {
	return &Events{handlers: make(map[*html.Node]map[EventType][]Handler)}
}

// On registers h for events of type typ dispatched on n.
func (e *Events) On(n *html.Node, typ EventType, h Handler) {
	byType, ok := e.handlers[n]
	if !ok {
		byType = make(map[EventType][]Handler)
		e.handlers[n] = byType
	}
	byType[typ] = append(byType[typ], h)
}

// Off drops every handler registered on n.
func (e *Events) Off(n *html.Node) {
	delete(e.handlers, n)
}

// Dispatch runs the handlers registered for typ on n in registration order
// and reports whether any ran.
func (e *Events) Dispatch(n *html.Node, typ EventType) bool {
	hs := e.handlers[n][typ]
	for _, h := range hs {
		h(n)
	}
	return len(hs) > 0
}

// Has reports whether n has a handler for typ.
func (e *Events) Has(n *html.Node, typ EventType) bool {
	return len(e.handlers[n][typ]) > 0
}

// Len returns the number of nodes with registered handlers.
func (e *Events) Len() int { return len(e.handlers) }

// Reset drops every registration.
func (e *Events) Reset() {
	e.handlers = make(map[*html.Node]map[EventType][]Handler)
}
