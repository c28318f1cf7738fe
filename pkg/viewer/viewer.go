// Package viewer renders JSON-shaped values into an interactive,
// collapsible HTML tree.
//
// RenderViewer fills a container node with the document and returns an
// Instance. Large containers are populated in chunks by scheduled tasks;
// the caller runs them with Instance.Turn or Instance.Drain. Clicks are
// simulated with Instance.Click and reach only the instance that rendered
// the node.
package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/internal/render"
	"github.com/oakwood-commons/jsonview/internal/sched"
	"github.com/oakwood-commons/jsonview/pkg/logger"
	"github.com/oakwood-commons/jsonview/pkg/value"
)

// NodeID addresses a collapsible node of an Instance.
type NodeID = render.NodeID

// State is the collapse state of a node.
type State = render.State

const (
	Expanded  = render.Expanded
	Collapsed = render.Collapsed
)

var (
	// ErrMissingContainer is returned when a toggle has no nested
	// container to act on.
	ErrMissingContainer = render.ErrMissingContainer
	// ErrUnknownNode is returned for node ids the instance never issued.
	ErrUnknownNode = render.ErrUnknownNode
	// ErrClosed is returned by operations on a closed instance.
	ErrClosed = errors.New("viewer instance closed")
	// ErrNotViewer is returned by Attach for a node that was not rendered
	// as a viewer document.
	ErrNotViewer = errors.New("node is not a viewer document")
)

type settings struct {
	log       *logr.Logger
	pacing    bool
	bigNumber value.BigNumberFunc
}

// Option configures RenderViewer and Attach.
type Option func(*settings)

// WithLogger sets the logger for diagnostics. By default the logger
// carried by the context is used.
func WithLogger(lgr logr.Logger) Option {
	return func(s *settings) { s.log = &lgr }
}

// WithPacing makes Drain wait on the wall clock for each chunk's delay.
func WithPacing(enabled bool) Option {
	return func(s *settings) { s.pacing = enabled }
}

// WithBigNumber sets the predicate recognizing arbitrary-precision numbers
// in native input. The default is value.DefaultBigNumber; nil disables the
// recognition.
func WithBigNumber(fn value.BigNumberFunc) Option {
	return func(s *settings) { s.bigNumber = fn }
}

func newSettings(ctx context.Context, with []Option) settings {
	s := settings{bigNumber: value.DefaultBigNumber}
	for _, opt := range with {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.FromContext(ctx)
	}
	return s
}

// Instance is one rendered viewer. It owns the collapse controller, the
// event registry and the task queue of its container. An Instance is not
// safe for concurrent use.
type Instance struct {
	container *html.Node
	value     value.Value
	cfg       Config
	loop      *sched.Loop
	events    *dom.Events
	ctrl      *render.Controller
	log       logr.Logger
	closed    bool
}

// RenderViewer renders v into container, replacing its content. opts are
// merged over Defaults. v may be a value.Value or any native Go value
// accepted by value.FromNative; unsupported values render as nothing. A
// nil container is replaced by a new div element.
//
// Only the top-level shell is built synchronously. Container entries are
// added by queued tasks; run them with Drain or Turn.
func RenderViewer(ctx context.Context, container *html.Node, v any, opts Options, with ...Option) *Instance {
	s := newSettings(ctx, with)
	if container == nil {
		container = dom.Element("div")
	}
	lgr := s.log.WithName("viewer")
	norm := value.Normalizer{BigNumber: s.bigNumber}

	events := dom.NewEvents()
	inst := &Instance{
		container: container,
		value:     norm.Normalize(v),
		cfg:       opts.Apply(Defaults()),
		loop:      sched.New(sched.WithPacing(s.pacing), sched.WithLogger(lgr)),
		events:    events,
		ctrl:      render.NewController(events, lgr),
		log:       lgr,
	}
	r := render.NewRenderer(inst.cfg, inst.loop, inst.ctrl,
		render.WithLiveness(inst.live),
		render.WithRendererLogger(lgr),
	)
	r.RenderDocument(container, inst.value)
	lgr.V(1).Info("rendered viewer shell", "kind", inst.value.Kind().String(), "pending", inst.loop.Pending())
	return inst
}

// Attach binds a new Instance to a document rendered earlier, for example
// one serialized with WritePage and parsed back. Collapse state is read
// from the markup. The instance has no pending work and no source value.
func Attach(ctx context.Context, container *html.Node, with ...Option) (*Instance, error) {
	if container == nil || !dom.HasClass(container, render.ClassDocument) {
		return nil, ErrNotViewer
	}
	s := newSettings(ctx, with)
	lgr := s.log.WithName("viewer")
	events := dom.NewEvents()
	ctrl := render.Hydrate(container, events, lgr)
	lgr.V(1).Info("attached viewer", "nodes", ctrl.Len())
	return &Instance{
		container: container,
		cfg:       Defaults(),
		loop:      sched.New(sched.WithPacing(s.pacing), sched.WithLogger(lgr)),
		events:    events,
		ctrl:      ctrl,
		log:       lgr,
	}, nil
}

// live reports whether scheduled work may still touch n.
func (i *Instance) live(n *html.Node) bool {
	return !i.closed && dom.Contains(i.container, n)
}

// Container returns the node the instance renders into.
func (i *Instance) Container() *html.Node { return i.container }

// Value returns the normalized value being rendered.
func (i *Instance) Value() value.Value { return i.value }

// Config returns the resolved configuration.
func (i *Instance) Config() Config { return i.cfg }

// Drain runs queued tasks until none remain or ctx is done.
func (i *Instance) Drain(ctx context.Context) (int, error) {
	return i.loop.Drain(ctx)
}

// Turn runs the next queued task and reports whether one ran.
func (i *Instance) Turn() bool { return i.loop.Turn() }

// Pending returns the number of queued tasks.
func (i *Instance) Pending() int { return i.loop.Pending() }

// Next returns the delay before the next queued task is due, measured from
// the last turn. ok is false when nothing is queued.
func (i *Instance) Next() (delay time.Duration, ok bool) { return i.loop.Next() }

// Click dispatches a click on n and reports whether a handler ran.
func (i *Instance) Click(n *html.Node) bool {
	if i.closed {
		return false
	}
	return i.events.Dispatch(n, dom.Click)
}

// Toggle flips the collapse state of id.
func (i *Instance) Toggle(id NodeID) error {
	if i.closed {
		return ErrClosed
	}
	return i.ctrl.Toggle(id)
}

// Collapse collapses id.
func (i *Instance) Collapse(id NodeID) error {
	if i.closed {
		return ErrClosed
	}
	return i.ctrl.Collapse(id)
}

// Expand expands id.
func (i *Instance) Expand(id NodeID) error {
	if i.closed {
		return ErrClosed
	}
	return i.ctrl.Expand(id)
}

// CollapseAll collapses every node rendered so far.
func (i *Instance) CollapseAll() error {
	if i.closed {
		return ErrClosed
	}
	return i.ctrl.CollapseAll()
}

// ExpandAll expands every node rendered so far.
func (i *Instance) ExpandAll() error {
	if i.closed {
		return ErrClosed
	}
	return i.ctrl.ExpandAll()
}

// State returns the collapse state of id.
func (i *Instance) State(id NodeID) (State, error) { return i.ctrl.State(id) }

// Lookup returns the node owning toggle.
func (i *Instance) Lookup(toggle *html.Node) (NodeID, bool) { return i.ctrl.Lookup(toggle) }

// Toggles returns the toggle of every node rendered so far, in creation
// order. The index of a toggle is its NodeID.
func (i *Instance) Toggles() []*html.Node { return i.ctrl.Toggles() }

// Close unregisters every handler. Queued tasks still run but no longer
// modify the document.
func (i *Instance) Close() {
	if i.closed {
		return
	}
	i.closed = true
	i.events.Reset()
	i.log.V(1).Info("closed viewer", "pending", i.loop.Pending())
}

// Closed reports whether Close was called.
func (i *Instance) Closed() bool { return i.closed }
