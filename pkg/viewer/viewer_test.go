package viewer

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/pkg/value"
)

func renderInst(t *testing.T, v any, opts Options, with ...Option) *Instance {
	t.Helper()
	inst := RenderViewer(context.Background(), dom.Element("div"), v, opts, with...)
	_, err := inst.Drain(context.Background())
	require.NoError(t, err)
	return inst
}

// visibleText concatenates the text a browser would show, skipping
// collapsed containers.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if dom.HasClass(n, "collapsed") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestRenderViewerMapping(t *testing.T) {
	inst := renderInst(t, map[string]any{"a": 1, "b": []any{1, 2}}, Options{})

	c := inst.Container()
	assert.True(t, dom.HasClass(c, "json-document"))
	assert.Equal(t, `{"a": 1,"b": [1,2]}`, dom.TextContent(c))
	require.Len(t, inst.Toggles(), 2)
	assert.Same(t, c.FirstChild, inst.Toggles()[0], "root toggle comes first")

	id, ok := inst.Lookup(inst.Toggles()[1])
	require.True(t, ok)
	assert.Equal(t, NodeID(1), id)
}

func TestRenderViewerURL(t *testing.T) {
	inst := renderInst(t, "https://example.com", Options{})
	link := inst.Container().FirstChild
	require.NotNil(t, link)
	assert.Equal(t, "a", link.Data)
	href, _ := dom.Attr(link, "href")
	assert.Equal(t, "https://example.com", href)
	target, _ := dom.Attr(link, "target")
	assert.Equal(t, "_blank", target)
	assert.Equal(t, `"https://example.com"`, dom.TextContent(link))
	assert.Nil(t, link.NextSibling)
}

func TestRenderViewerBatches(t *testing.T) {
	items := make([]any, 2500)
	for i := range items {
		items[i] = i
	}
	inst := RenderViewer(context.Background(), nil, items, Options{RootCollapsible: Bool(false)})
	list := inst.Container().FirstChild.NextSibling
	require.NotNil(t, list)
	assert.Equal(t, "ol", list.Data)

	assert.Equal(t, 3, inst.Pending())
	var sizes []int
	prev := 0
	for inst.Turn() {
		n := dom.ChildElementCount(list)
		sizes = append(sizes, n-prev)
		prev = n
	}
	assert.Equal(t, []int{999, 999, 502}, sizes)
	assert.Equal(t, "2499", dom.TextContent(list.LastChild))
}

func TestRenderViewerStartsCollapsed(t *testing.T) {
	doc := map[string]any{
		"list": []any{map[string]any{"x": []any{1, 2}}, 3},
		"obj":  map[string]any{"k": "v"},
	}
	inst := renderInst(t, doc, Options{Collapsed: Bool(true), ChunkSize: Int(1)})

	require.Len(t, inst.Toggles(), 5)
	for i := range inst.Toggles() {
		st, err := inst.State(NodeID(i))
		require.NoError(t, err)
		assert.Equal(t, Collapsed, st, "node %d", i)
	}
	assert.Equal(t, "{2 items}", visibleText(inst.Container()))

	require.True(t, inst.Click(inst.Toggles()[0]))
	assert.Equal(t, `{"list": [2 items],"obj": {1 item}}`, visibleText(inst.Container()))
}

func TestRenderViewerCollapseAll(t *testing.T) {
	inst := renderInst(t, []any{[]any{1}, []any{2, 3}}, Options{})
	require.NoError(t, inst.CollapseAll())
	assert.Equal(t, "[2 items]", visibleText(inst.Container()))
	require.NoError(t, inst.ExpandAll())
	assert.Equal(t, "[[1],[2,3]]", visibleText(inst.Container()))

	require.NoError(t, inst.Collapse(2))
	assert.Equal(t, "[[1],[2 items]]", visibleText(inst.Container()))
	require.NoError(t, inst.Expand(2))
	assert.ErrorIs(t, inst.Toggle(9), ErrUnknownNode)
}

func TestRenderViewerClose(t *testing.T) {
	items := make([]any, 10)
	for i := range items {
		items[i] = i
	}
	inst := RenderViewer(context.Background(), nil, items, Options{ChunkSize: Int(4)})
	list := inst.Container().FirstChild.NextSibling.NextSibling
	require.True(t, inst.Turn())
	assert.Equal(t, 4, dom.ChildElementCount(list))

	toggle := inst.Toggles()[0]
	inst.Close()
	assert.True(t, inst.Closed())
	_, err := inst.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, dom.ChildElementCount(list), "closed instances ignore queued chunks")
	assert.False(t, inst.Click(toggle))
	assert.ErrorIs(t, inst.Toggle(0), ErrClosed)
	assert.ErrorIs(t, inst.CollapseAll(), ErrClosed)
	inst.Close()
}

func TestRenderViewerReplacesPreviousRender(t *testing.T) {
	container := dom.Element("div")
	items := make([]any, 6)
	for i := range items {
		items[i] = i
	}
	first := RenderViewer(context.Background(), container, items, Options{ChunkSize: Int(2)})
	require.True(t, first.Turn())

	second := RenderViewer(context.Background(), container, 5, Options{})
	_, err := first.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5", dom.TextContent(container))
	assert.Zero(t, second.Pending())
}

func TestRenderViewerUnsupportedValue(t *testing.T) {
	assert.NotPanics(t, func() {
		inst := renderInst(t, make(chan int), Options{})
		assert.Equal(t, value.Invalid, inst.Value().Kind())
		assert.Nil(t, inst.Container().FirstChild)
	})
	assert.NotPanics(t, func() {
		inst := renderInst(t, map[string]any{"f": func() {}, "ok": true}, Options{ChunkSize: Int(-3)})
		assert.Equal(t, "{}", visibleText(inst.Container()))
	})
}

func TestRenderViewerBigNumbers(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 100)

	inst := renderInst(t, []any{n}, Options{SpecialBigNumbers: Bool(true)})
	assert.Equal(t, "[1267650600228229401496703205376]", visibleText(inst.Container()))

	inst = renderInst(t, []any{n}, Options{})
	assert.Equal(t, "[1.2676506002282294e+30]", visibleText(inst.Container()))

	inst = renderInst(t, value.NewBigNumber("0.1000000000000000000001"), Options{SpecialBigNumbers: Bool(true)})
	assert.Equal(t, "0.1000000000000000000001", visibleText(inst.Container()))
}

func TestRenderViewerLogsToConfiguredLogger(t *testing.T) {
	var lines []string
	lgr := funcr.New(func(prefix, args string) {
		lines = append(lines, prefix+" "+args)
	}, funcr.Options{Verbosity: 1})

	renderInst(t, []any{1}, Options{}, WithLogger(lgr))
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "viewer")
	assert.Contains(t, lines[0], "rendered viewer shell")
}

func TestAttach(t *testing.T) {
	inst := renderInst(t, map[string]any{"a": []any{1, 2}, "b": map[string]any{"c": nil}}, Options{})
	require.NoError(t, inst.Toggle(1))

	var buf bytes.Buffer
	require.NoError(t, WriteFragment(&buf, inst))
	nodes, err := html.ParseFragment(&buf, &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	attached, err := Attach(context.Background(), nodes[0])
	require.NoError(t, err)
	require.Len(t, attached.Toggles(), 3)
	st, err := attached.State(1)
	require.NoError(t, err)
	assert.Equal(t, Collapsed, st)
	assert.Equal(t, `{"a": [2 items],"b": {"c": null}}`, visibleText(attached.Container()))

	require.True(t, attached.Click(attached.Toggles()[1]))
	assert.Equal(t, `{"a": [1,2],"b": {"c": null}}`, visibleText(attached.Container()))
	assert.Zero(t, attached.Pending())
}

func TestAttachRejectsOtherNodes(t *testing.T) {
	_, err := Attach(context.Background(), dom.Element("div"))
	assert.ErrorIs(t, err, ErrNotViewer)
	_, err = Attach(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotViewer)
}

func TestOptionsApply(t *testing.T) {
	cfg := Options{}.Apply(Defaults())
	assert.Equal(t, Defaults(), cfg)
	assert.False(t, cfg.Collapsed)
	assert.True(t, cfg.RootCollapsible)
	assert.True(t, cfg.QuoteKeys)
	assert.True(t, cfg.LinkifyURLs)
	assert.False(t, cfg.SpecialBigNumbers)
	assert.Equal(t, 999, cfg.ChunkSize)
	assert.Equal(t, 33*time.Millisecond, cfg.ChunkDelay)

	cfg = Options{QuoteKeys: Bool(false), ChunkDelayMs: Int(-5)}.Apply(Defaults())
	assert.False(t, cfg.QuoteKeys)
	assert.Zero(t, cfg.ChunkDelay)
}

func TestOptionsMerge(t *testing.T) {
	base := OptionsFrom(Defaults())
	merged := base.Merge(Options{Collapsed: Bool(true), ChunkSize: Int(10)})
	cfg := merged.Apply(Config{})

	want := Defaults()
	want.Collapsed = true
	want.ChunkSize = 10
	assert.Equal(t, want, cfg)
}

func TestOptionsYAML(t *testing.T) {
	var opts Options
	require.NoError(t, yaml.Unmarshal([]byte("collapsed: true\nchunkDelayMs: 0\nlinkifyUrls: false\n"), &opts))
	require.NotNil(t, opts.ChunkDelayMs)
	assert.Zero(t, *opts.ChunkDelayMs)
	assert.Nil(t, opts.ChunkSize)

	cfg := opts.Apply(Defaults())
	assert.True(t, cfg.Collapsed)
	assert.False(t, cfg.LinkifyURLs)
	assert.Zero(t, cfg.ChunkDelay)
}
