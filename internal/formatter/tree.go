package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

const defaultMaxArrayInline = 3

// TreeOptions controls outline output.
type TreeOptions struct {
	// NoValues hides leaf values (structure only).
	NoValues bool
	// MaxDepth limits depth; 0 is unlimited.
	MaxDepth int
	// ExpandArrays lists every element instead of inlining short scalar
	// lists and summarizing long ones.
	ExpandArrays bool
	// MaxArrayInline is the longest scalar list shown inline (default 3).
	MaxArrayInline int
	// MaxString truncates leaf values; 0 disables.
	MaxString int
	// ArrayStyle labels list elements: index ([0]), numbered (1), bullet
	// (•) or none.
	ArrayStyle string
}

// ValidArrayStyles contains all valid ArrayStyle values.
var ValidArrayStyles = []string{"index", "numbered", "bullet", "none"}

// ValidateArrayStyle returns an error for an unknown style. Empty means
// index.
func ValidateArrayStyle(style string) error {
	if style == "" {
		return nil
	}
	for _, valid := range ValidArrayStyles {
		if style == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid array-style %q: valid values are %s", style, strings.Join(ValidArrayStyles, ", "))
}

// FormatArrayIndex labels element i of a list.
func FormatArrayIndex(i int, style string) string {
	switch style {
	case "numbered":
		return strconv.Itoa(i + 1)
	case "bullet":
		return "•"
	case "none":
		return ""
	default:
		return "[" + strconv.Itoa(i) + "]"
	}
}

// FormatTree renders v as an ASCII outline. Mapping members become
// branches in document order, list elements get index labels and scalars
// sit at the leaves.
func FormatTree(v value.Value, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	tree := treeprint.New()
	switch v.Kind() {
	case value.Mapping:
		buildMapping(tree, v, opts, 0)
	case value.List:
		buildList(tree, v, opts, 0)
	default:
		tree.SetValue(leafText(v, opts))
	}
	return tree.String()
}

func buildMapping(branch treeprint.Tree, v value.Value, opts TreeOptions, depth int) {
	for _, m := range v.Members() {
		addNode(branch, m.Key, m.Value, opts, depth)
	}
}

func buildList(branch treeprint.Tree, v value.Value, opts TreeOptions, depth int) {
	for i, item := range v.Items() {
		addNode(branch, FormatArrayIndex(i, opts.ArrayStyle), item, opts, depth)
	}
}

func addNode(branch treeprint.Tree, key string, v value.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(keyValue(key, "..."))
		return
	}
	switch {
	case v.Kind() == value.Mapping && v.Len() > 0:
		buildMapping(branch.AddBranch(keyOnly(key)), v, opts, depth+1)
	case v.Kind() == value.List && v.Len() > 0:
		addList(branch, key, v, opts, depth)
	case opts.NoValues:
		branch.AddNode(keyOnly(key))
	default:
		branch.AddNode(keyValue(key, leafText(v, opts)))
	}
}

func addList(branch treeprint.Tree, key string, v value.Value, opts TreeOptions, depth int) {
	scalar := isScalarList(v)
	switch {
	case !opts.ExpandArrays && scalar && opts.NoValues:
		branch.AddNode(keyOnly(key))
	case !opts.ExpandArrays && scalar && v.Len() <= opts.MaxArrayInline:
		parts := make([]string, v.Len())
		for i, item := range v.Items() {
			parts[i] = scalarText(item)
		}
		branch.AddNode(keyValue(key, "["+strings.Join(parts, ", ")+"]"))
	case !opts.ExpandArrays && scalar:
		branch.AddNode(keyValue(key, fmt.Sprintf("[%d items]", v.Len())))
	default:
		buildList(branch.AddBranch(keyOnly(key)), v, opts, depth+1)
	}
}

func isScalarList(v value.Value) bool {
	for _, item := range v.Items() {
		if item.IsContainer() {
			return false
		}
	}
	return true
}

func keyValue(key, val string) string {
	if key == "" {
		return val
	}
	return key + ": " + val
}

func keyOnly(key string) string {
	if key == "" {
		return "(item)"
	}
	return key
}

func leafText(v value.Value, opts TreeOptions) string {
	return truncate(scalarText(v), opts.MaxString)
}

// scalarText shows strings bare, empty containers as brackets and numbers
// with their literal text.
func scalarText(v value.Value) string {
	switch v.Kind() {
	case value.List:
		return "[]"
	case value.Mapping:
		return "{}"
	case value.Invalid:
		return ""
	}
	return v.Text()
}
