package render

import (
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/internal/sched"
	"github.com/oakwood-commons/jsonview/pkg/value"
)

// Renderer converts values into DOM nodes. Container entries are inserted
// by scheduled tasks, one chunk per task.
type Renderer struct {
	cfg   Config
	sched sched.Scheduler
	ctrl  *Controller
	live  func(*html.Node) bool
	log   logr.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLiveness sets the check run before a scheduled chunk touches its
// container. The default only requires the container to still be attached
// to a parent.
func WithLiveness(fn func(*html.Node) bool) RendererOption {
	return func(r *Renderer) { r.live = fn }
}

// WithRendererLogger sets the logger for chunk tracing.
func WithRendererLogger(lgr logr.Logger) RendererOption {
	return func(r *Renderer) { r.log = lgr }
}

// NewRenderer returns a Renderer registering toggles with ctrl and
// deferring container population to s.
func NewRenderer(cfg Config, s sched.Scheduler, ctrl *Controller, opts ...RendererOption) *Renderer {
	r := &Renderer{
		cfg:   cfg,
		sched: s,
		ctrl:  ctrl,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config { return r.cfg }

// Render appends the DOM for v to parent. owner is the toggle registered
// for v, or NoNode when v has none; the nested container created for v is
// bound to it.
func (r *Renderer) Render(parent *html.Node, v value.Value, owner NodeID) {
	if r.cfg.SpecialBigNumbers && IsBigNumberLike(v) {
		appendLiteral(parent, v.Text())
		return
	}
	switch v.Kind() {
	case value.Null:
		appendLiteral(parent, "null")
	case value.Number, value.Bool:
		appendLiteral(parent, v.Text())
	case value.BigNumber:
		appendLiteral(parent, value.FormatFloat(v.Float()))
	case value.String:
		r.renderString(parent, v.Text())
	case value.List:
		r.renderContainer(parent, v, owner, "ol", ClassArray, "[", "]")
	case value.Mapping:
		r.renderContainer(parent, v, owner, "ul", ClassDict, "{", "}")
	}
}

func (r *Renderer) renderString(parent *html.Node, s string) {
	quoted := value.QuoteString(s)
	if r.cfg.LinkifyURLs && IsURL(s) {
		appendLink(parent, s, quoted)
		return
	}
	appendString(parent, quoted)
}

func (r *Renderer) renderContainer(parent *html.Node, v value.Value, owner NodeID, tag, class, openText, closeText string) {
	if v.Len() == 0 {
		dom.Append(parent, dom.Text(openText+closeText))
		return
	}
	dom.Append(parent, dom.Text(openText))
	list := dom.Append(parent, dom.Element(tag, class))
	dom.Append(parent, dom.Text(closeText))
	if owner != NoNode {
		r.ctrl.Bind(owner, list)
	}
	r.populate(list, entriesOf(v), owner)
}

type entry struct {
	key   string
	keyed bool
	val   value.Value
}

func entriesOf(v value.Value) []entry {
	if v.Kind() == value.Mapping {
		out := make([]entry, len(v.Members()))
		for i, m := range v.Members() {
			out[i] = entry{key: m.Key, keyed: true, val: m.Value}
		}
		return out
	}
	out := make([]entry, len(v.Items()))
	for i, item := range v.Items() {
		out[i] = entry{val: item}
	}
	return out
}

// populate schedules one task per chunk of entries. Chunk i is due
// i*ChunkDelay from now and appends at the tail of list, so entries land
// in source order. When nodes start collapsed, the collapse of owner is
// queued behind the last chunk.
func (r *Renderer) populate(list *html.Node, entries []entry, owner NodeID) {
	batches := Chunk(entries, r.cfg.ChunkSize)
	total := len(entries)
	start := 0
	for i, batch := range batches {
		first := start
		start += len(batch)
		r.sched.Schedule(r.delay(i), func() {
			if !r.isLive(list) {
				r.log.V(1).Info("dropping chunk for detached container", "chunk", i)
				return
			}
			for j, e := range batch {
				r.buildListItem(list, e.val, first+j == total-1, e.keyed, e.key)
			}
			if owner != NoNode {
				r.ctrl.Recount(owner)
			}
		})
	}
	r.log.V(2).Info("scheduled container population", "entries", total, "chunks", len(batches))

	if owner == NoNode || !r.cfg.Collapsed {
		return
	}
	last := max(len(batches)-1, 0)
	r.sched.Schedule(r.delay(last), func() {
		if !r.isLive(list) {
			return
		}
		_ = r.ctrl.Collapse(owner)
	})
}

func (r *Renderer) delay(chunk int) time.Duration {
	return r.cfg.ChunkDelay * time.Duration(chunk)
}

func (r *Renderer) isLive(n *html.Node) bool {
	if r.live != nil {
		return r.live(n)
	}
	return n.Parent != nil
}

// RenderDocument replaces the content of container with the document for
// v. A collapsible top-level value gets a toggle when RootCollapsible is
// set.
func (r *Renderer) RenderDocument(container *html.Node, v value.Value) {
	dom.Clear(container)
	dom.AddClass(container, ClassDocument)
	owner := NoNode
	if r.cfg.RootCollapsible && IsCollapsible(v) {
		owner = r.ctrl.Register(dom.Prepend(container, newToggle()))
	}
	r.Render(container, v, owner)
}
