package dom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestElementAndRender(t *testing.T) {
	root := Element("div", "json-document")
	span := Append(root, Element("span", "json-string"))
	Append(span, Text(`"<b>&"`))
	a := Append(root, Element("a", "json-string"))
	SetAttr(a, "href", "https://x/?a=1&b=2")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, root))
	assert.Equal(t,
		`<div class="json-document"><span class="json-string">&#34;&lt;b&gt;&amp;&#34;</span><a class="json-string" href="https://x/?a=1&amp;b=2"></a></div>`,
		buf.String())
	assert.Equal(t, `"<b>&"`, TextContent(root))
}

func TestClassList(t *testing.T) {
	n := Element("ul", "json-dict")
	assert.True(t, HasClass(n, "json-dict"))
	AddClass(n, "collapsed")
	AddClass(n, "collapsed")
	assert.Equal(t, []string{"json-dict", "collapsed"}, Classes(n))

	RemoveClass(n, "json-dict")
	assert.Equal(t, []string{"collapsed"}, Classes(n))

	assert.False(t, ToggleClass(n, "collapsed"))
	_, ok := Attr(n, "class")
	assert.False(t, ok, "empty class list drops the attribute")
	assert.True(t, ToggleClass(n, "collapsed"))

	assert.False(t, HasClass(Text("collapsed"), "collapsed"))
}

func TestTreeSurgery(t *testing.T) {
	parent := Element("li")
	first := Append(parent, Text("["))
	list := Append(parent, Element("ol"))
	Append(parent, Text("]"))
	Prepend(parent, Element("a", "json-toggle"))

	ph := InsertAfter(list, Element("a", "json-placeholder"))
	assert.Equal(t, ph, list.NextSibling)
	assert.Equal(t, first, parent.FirstChild.NextSibling)
	assert.Equal(t, 3, ChildElementCount(parent))
	assert.True(t, Contains(parent, ph))

	Remove(ph)
	assert.Nil(t, ph.Parent)
	Remove(ph)
	assert.Len(t, ChildElements(parent), 2)

	Clear(parent)
	assert.Nil(t, parent.FirstChild)
}

func TestFindSibling(t *testing.T) {
	parent := Element("li")
	toggle := Append(parent, Element("a", "json-toggle"))
	Append(parent, Text("["))
	list := Append(parent, Element("ol", "json-array"))
	Append(parent, Text("]"))
	marked := Append(parent, Element("span"))
	SetAttr(marked, "id", "tail")

	assert.Equal(t, list, FindSibling(toggle, "json-array"), "forward scan")
	assert.Equal(t, toggle, FindSibling(list, "json-toggle"), "backward scan")
	assert.Equal(t, marked, FindSibling(toggle, "tail"), "id match")
	assert.Nil(t, FindSibling(toggle, "json-placeholder"))
	assert.Nil(t, FindSibling(toggle, ""))
	assert.Nil(t, FindSibling(nil, "json-array"))
}

func TestFindSiblingPrefersPrecedingMatch(t *testing.T) {
	parent := Element("div")
	before := Append(parent, Element("span", "m"))
	middle := Append(parent, Element("span"))
	Append(parent, Element("span", "m"))
	assert.Equal(t, before, FindSibling(middle, "m"))
}

func TestEvents(t *testing.T) {
	ev := NewEvents()
	a := Element("a")
	b := Element("a")
	var got []string
	ev.On(a, Click, func(*html.Node) { got = append(got, "a1") })
	ev.On(a, Click, func(*html.Node) { got = append(got, "a2") })
	ev.On(b, Click, func(*html.Node) { got = append(got, "b") })

	assert.True(t, ev.Dispatch(a, Click))
	assert.Equal(t, []string{"a1", "a2"}, got)
	assert.False(t, ev.Dispatch(a, "keydown"))
	assert.True(t, ev.Has(b, Click))
	assert.Equal(t, 2, ev.Len())

	ev.Off(a)
	assert.False(t, ev.Dispatch(a, Click))

	ev.Reset()
	assert.Zero(t, ev.Len())
	assert.False(t, ev.Dispatch(b, Click))
}
