package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/oakwood-commons/jsonview/internal/dom"
)

func TestCollapseRoundTrip(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `{"a":[1,2,3]}`))
	require.Equal(t, 2, h.ctrl.Len())
	before := h.markup(t)

	const a = NodeID(1)
	toggle := h.ctrl.Toggles()[a]
	list := h.ctrl.Container(a)
	require.NotNil(t, list)

	require.True(t, h.events.Dispatch(toggle, dom.Click))
	st, err := h.ctrl.State(a)
	require.NoError(t, err)
	assert.Equal(t, Collapsed, st)
	assert.True(t, dom.HasClass(toggle, ClassCollapsed))
	assert.True(t, dom.HasClass(list, ClassCollapsed))

	ph := h.ctrl.Placeholder(a)
	require.NotNil(t, ph)
	assert.Same(t, ph, list.NextSibling, "placeholder follows the container")
	assert.Equal(t, "3 items", dom.TextContent(ph))
	assert.Equal(t, RolePlaceholder, RoleOf(ph))

	require.True(t, h.events.Dispatch(ph, dom.Click), "placeholder click acts on the toggle")
	st, _ = h.ctrl.State(a)
	assert.Equal(t, Expanded, st)
	assert.Nil(t, h.ctrl.Placeholder(a))
	assert.Nil(t, ph.Parent, "placeholder removed")
	assert.False(t, h.events.Has(ph, dom.Click))
	assert.Equal(t, before, h.markup(t))
}

func TestCollapseSingleItem(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `{"a":[1]}`))
	require.NoError(t, h.ctrl.Toggle(1))
	assert.Equal(t, "1 item", dom.TextContent(h.ctrl.Placeholder(1)))
	assert.Equal(t, `{"a": [11 item]}`, dom.TextContent(h.root))
}

func TestCollapseIdempotent(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `[[1,2]]`))

	require.NoError(t, h.ctrl.Collapse(1))
	require.NoError(t, h.ctrl.Collapse(1))
	assert.Equal(t, 1, strings.Count(h.markup(t), ClassPlaceholder))

	require.NoError(t, h.ctrl.Expand(1))
	require.NoError(t, h.ctrl.Expand(1))
	assert.NotContains(t, h.markup(t), ClassPlaceholder)
}

func TestCollapseAllExpandAll(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `{"a":{"b":[1]},"c":[2,3]}`))
	require.Equal(t, 4, h.ctrl.Len())

	require.NoError(t, h.ctrl.CollapseAll())
	for i := range h.ctrl.Len() {
		st, _ := h.ctrl.State(NodeID(i))
		assert.Equal(t, Collapsed, st, "node %d", i)
	}
	require.NoError(t, h.ctrl.ExpandAll())
	assert.NotContains(t, h.markup(t), ClassCollapsed)
}

func TestToggleMissingContainer(t *testing.T) {
	var logged []string
	lgr := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{})
	ctrl := NewController(dom.NewEvents(), lgr)
	toggle := newToggle()
	id := ctrl.Register(toggle)

	err := ctrl.Toggle(id)
	require.ErrorIs(t, err, ErrMissingContainer)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "collapse transition abandoned")
	assert.False(t, dom.HasClass(toggle, ClassCollapsed), "state untouched")
	st, err := ctrl.State(id)
	require.NoError(t, err)
	assert.Equal(t, Expanded, st)
}

func TestToggleDetachedContainer(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `[1]`))
	dom.Remove(h.ctrl.Container(0))
	assert.ErrorIs(t, h.ctrl.Toggle(0), ErrMissingContainer)
	assert.Nil(t, h.ctrl.Placeholder(0))
}

func TestUnknownNode(t *testing.T) {
	ctrl := NewController(dom.NewEvents(), logr.Discard())
	assert.ErrorIs(t, ctrl.Toggle(3), ErrUnknownNode)
	assert.ErrorIs(t, ctrl.Toggle(NoNode), ErrUnknownNode)
	_, err := ctrl.State(0)
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.Nil(t, ctrl.Container(0))
}

func TestControllersAreIndependent(t *testing.T) {
	a := newHarness(DefaultConfig())
	b := newHarness(DefaultConfig())
	a.render(t, mustDecode(t, `[1,2]`))
	b.render(t, mustDecode(t, `[1,2]`))

	require.True(t, a.events.Dispatch(a.ctrl.Toggles()[0], dom.Click))
	assert.False(t, b.events.Dispatch(a.ctrl.Toggles()[0], dom.Click))
	st, _ := b.ctrl.State(0)
	assert.Equal(t, Expanded, st)
}

func reparse(t *testing.T, n *html.Node) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dom.Render(&buf, n))
	nodes, err := html.ParseFragment(&buf, &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestHydrate(t *testing.T) {
	h := newHarness(DefaultConfig())
	h.render(t, mustDecode(t, `{"a":[1,2],"b":{"c":true}}`))
	require.NoError(t, h.ctrl.Collapse(2))

	root := reparse(t, h.root)
	events := dom.NewEvents()
	ctrl := Hydrate(root, events, logr.Discard())
	require.Equal(t, 3, ctrl.Len())

	want := []State{Expanded, Expanded, Collapsed}
	for i, w := range want {
		st, err := ctrl.State(NodeID(i))
		require.NoError(t, err)
		assert.Equal(t, w, st, "node %d", i)
	}
	assert.True(t, dom.HasClass(ctrl.Container(1), ClassArray))
	assert.True(t, dom.HasClass(ctrl.Container(2), ClassDict))

	ph := ctrl.Placeholder(2)
	require.NotNil(t, ph)
	require.True(t, events.Dispatch(ph, dom.Click))
	st, _ := ctrl.State(2)
	assert.Equal(t, Expanded, st)
	assert.NotContains(t, dom.TextContent(root), "1 item")

	require.True(t, events.Dispatch(ctrl.Toggles()[1], dom.Click))
	assert.Equal(t, "2 items", dom.TextContent(ctrl.Placeholder(1)))
}
