package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

func decode(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(src), value.DefaultBigNumber)
	require.NoError(t, err)
	return v
}

func TestFormatTree(t *testing.T) {
	out := FormatTree(decode(t, `{"z":1,"a":{"b":"x"},"tags":["p","q"],"nums":[1,2,3,4],"objs":[{"id":7}],"e":[]}`), TreeOptions{})

	assert.Contains(t, out, "├── z: 1\n")
	assert.Contains(t, out, "├── a\n│   └── b: x\n")
	assert.Contains(t, out, "├── tags: [p, q]\n")
	assert.Contains(t, out, "├── nums: [4 items]\n")
	assert.Contains(t, out, "├── objs\n│   └── [0]\n│       └── id: 7\n")
	assert.Contains(t, out, "└── e: []\n")
	assert.Less(t, strings.Index(out, "z: 1"), strings.Index(out, "├── a"), "document order")
}

func TestFormatTreeOptions(t *testing.T) {
	v := decode(t, `{"list":[1,2],"deep":{"x":{"y":1}},"s":"abcdefghij"}`)

	out := FormatTree(v, TreeOptions{ExpandArrays: true, ArrayStyle: "numbered"})
	assert.Contains(t, out, "list\n│   ├── 1: 1\n│   └── 2: 2\n")

	out = FormatTree(v, TreeOptions{MaxDepth: 1})
	assert.Contains(t, out, "x: ...")

	out = FormatTree(v, TreeOptions{MaxString: 5})
	assert.Contains(t, out, "s: abcd…")

	out = FormatTree(v, TreeOptions{NoValues: true})
	assert.Contains(t, out, "── list\n")
	assert.NotContains(t, out, "abc")
}

func TestFormatTreeScalarRoot(t *testing.T) {
	assert.Equal(t, "42\n", FormatTree(value.NewInt(42), TreeOptions{}))
}

func TestArrayStyles(t *testing.T) {
	assert.Equal(t, "[2]", FormatArrayIndex(2, ""))
	assert.Equal(t, "3", FormatArrayIndex(2, "numbered"))
	assert.Equal(t, "•", FormatArrayIndex(2, "bullet"))
	assert.Empty(t, FormatArrayIndex(2, "none"))

	require.NoError(t, ValidateArrayStyle(""))
	require.NoError(t, ValidateArrayStyle("bullet"))
	assert.ErrorContains(t, ValidateArrayStyle("stars"), "invalid array-style")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "日…", truncate("日本語", 4))
}
