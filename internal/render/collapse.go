package render

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
)

// NodeID addresses a collapsible node in a Controller.
type NodeID int

// NoNode marks a value without a toggle.
const NoNode NodeID = -1

// State is the collapse state of a node.
type State uint8

const (
	Expanded State = iota
	Collapsed
)

func (s State) String() string {
	if s == Collapsed {
		return "collapsed"
	}
	return "expanded"
}

var (
	// ErrMissingContainer is reported when a toggle has no attached nested
	// container to act on. The transition is abandoned.
	ErrMissingContainer = errors.New("nested container not found")
	// ErrUnknownNode is returned for ids the controller never issued.
	ErrUnknownNode = errors.New("unknown node")
)

type record struct {
	toggle      *html.Node
	container   *html.Node
	placeholder *html.Node
	state       State
}

// Controller owns the collapse state of every collapsible node of one
// viewer instance. Each node is a record in an arena holding its toggle,
// nested container and placeholder, so state changes never search the DOM.
type Controller struct {
	nodes    []record
	byToggle map[*html.Node]NodeID
	events   *dom.Events
	log      logr.Logger
}

// NewController returns a Controller registering handlers on events.
func NewController(events *dom.Events, lgr logr.Logger) *Controller {
	return &Controller{
		byToggle: make(map[*html.Node]NodeID),
		events:   events,
		log:      lgr,
	}
}

// Register adds a node for toggle and wires toggle clicks to Toggle.
func (c *Controller) Register(toggle *html.Node) NodeID {
	id := NodeID(len(c.nodes))
	c.nodes = append(c.nodes, record{toggle: toggle})
	c.byToggle[toggle] = id
	c.events.On(toggle, dom.Click, func(*html.Node) {
		_ = c.Toggle(id)
	})
	return id
}

// Bind attaches the nested container rendered for id.
func (c *Controller) Bind(id NodeID, container *html.Node) {
	if rec := c.record(id); rec != nil {
		rec.container = container
	}
}

// adopt restores a node from an existing DOM, including its placeholder.
func (c *Controller) adopt(id NodeID, container, placeholder *html.Node, state State) {
	rec := c.record(id)
	if rec == nil {
		return
	}
	rec.container = container
	rec.state = state
	if state == Collapsed && placeholder != nil {
		rec.placeholder = placeholder
		c.wirePlaceholder(rec)
	}
}

// Len returns the number of registered nodes.
func (c *Controller) Len() int { return len(c.nodes) }

// Lookup returns the node owning toggle.
func (c *Controller) Lookup(toggle *html.Node) (NodeID, bool) {
	id, ok := c.byToggle[toggle]
	return id, ok
}

// Toggles returns every registered toggle in registration order.
func (c *Controller) Toggles() []*html.Node {
	out := make([]*html.Node, len(c.nodes))
	for i := range c.nodes {
		out[i] = c.nodes[i].toggle
	}
	return out
}

// State returns the collapse state of id.
func (c *Controller) State(id NodeID) (State, error) {
	rec := c.record(id)
	if rec == nil {
		return Expanded, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return rec.state, nil
}

// Container returns the nested container bound to id, if any.
func (c *Controller) Container(id NodeID) *html.Node {
	if rec := c.record(id); rec != nil {
		return rec.container
	}
	return nil
}

// Placeholder returns the collapsed summary of id, or nil when expanded.
func (c *Controller) Placeholder(id NodeID) *html.Node {
	if rec := c.record(id); rec != nil {
		return rec.placeholder
	}
	return nil
}

// Toggle flips the state of id.
func (c *Controller) Toggle(id NodeID) error {
	rec, err := c.ready(id)
	if err != nil {
		return err
	}
	if rec.state == Collapsed {
		c.expand(rec)
		return nil
	}
	c.collapse(rec)
	return nil
}

// Collapse hides the nested container of id behind a placeholder showing
// its item count. Collapsing a collapsed node is a no-op.
func (c *Controller) Collapse(id NodeID) error {
	rec, err := c.ready(id)
	if err != nil {
		return err
	}
	if rec.state != Collapsed {
		c.collapse(rec)
	}
	return nil
}

// Expand shows the nested container of id again and removes its
// placeholder. Expanding an expanded node is a no-op.
func (c *Controller) Expand(id NodeID) error {
	rec, err := c.ready(id)
	if err != nil {
		return err
	}
	if rec.state == Collapsed {
		c.expand(rec)
	}
	return nil
}

// CollapseAll collapses every node that has a container.
func (c *Controller) CollapseAll() error {
	var errs []error
	for i := range c.nodes {
		errs = append(errs, c.Collapse(NodeID(i)))
	}
	return errors.Join(errs...)
}

// ExpandAll expands every node that has a container.
func (c *Controller) ExpandAll() error {
	var errs []error
	for i := range c.nodes {
		errs = append(errs, c.Expand(NodeID(i)))
	}
	return errors.Join(errs...)
}

func (c *Controller) record(id NodeID) *record {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil
	}
	return &c.nodes[id]
}

// ready returns the record of id if it can change state. A missing or
// detached container is reported and leaves the node untouched.
func (c *Controller) ready(id NodeID) (*record, error) {
	rec := c.record(id)
	if rec == nil {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	if rec.container == nil || rec.container.Parent == nil {
		c.log.Error(ErrMissingContainer, "collapse transition abandoned", "node", int(id))
		return nil, fmt.Errorf("node %d: %w", id, ErrMissingContainer)
	}
	return rec, nil
}

func (c *Controller) collapse(rec *record) {
	dom.AddClass(rec.toggle, ClassCollapsed)
	dom.AddClass(rec.container, ClassCollapsed)
	rec.placeholder = insertPlaceholder(rec.container, dom.ChildElementCount(rec.container))
	rec.state = Collapsed
	c.wirePlaceholder(rec)
}

// Recount updates the placeholder of a collapsed id to the current size of
// its container. Chunks appended after the collapse call it.
func (c *Controller) Recount(id NodeID) {
	rec := c.record(id)
	if rec == nil || rec.state != Collapsed || rec.placeholder == nil || rec.container == nil {
		return
	}
	if t := rec.placeholder.FirstChild; t != nil && t.Type == html.TextNode {
		t.Data = placeholderText(dom.ChildElementCount(rec.container))
	}
}

func (c *Controller) expand(rec *record) {
	dom.RemoveClass(rec.toggle, ClassCollapsed)
	dom.RemoveClass(rec.container, ClassCollapsed)
	if rec.placeholder != nil {
		c.events.Off(rec.placeholder)
		dom.Remove(rec.placeholder)
		rec.placeholder = nil
	}
	rec.state = Expanded
}

// wirePlaceholder makes a placeholder click act as a click on its toggle.
func (c *Controller) wirePlaceholder(rec *record) {
	toggle := rec.toggle
	c.events.On(rec.placeholder, dom.Click, func(*html.Node) {
		c.events.Dispatch(toggle, dom.Click)
	})
}
