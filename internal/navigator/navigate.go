package navigator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

// ErrNotFound is returned when a path step has no matching key or index.
var ErrNotFound = errors.New("path not found")

// IsSimplePath reports whether expr is plain navigation that NodeAtPath
// resolves. Anything with calls, operators or literals needs CEL.
func IsSimplePath(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "(){}=!<>&|+*/%?:, ") {
		return false
	}
	if strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, "'") {
		return false
	}
	// [1] and ["key"] navigate; [x] is a list literal.
	if strings.HasPrefix(trimmed, "[") {
		end := strings.IndexByte(trimmed, ']')
		if end < 0 {
			return false
		}
		inner := trimmed[1:end]
		if _, err := strconv.Atoi(inner); err != nil && !strings.HasPrefix(inner, `"`) {
			return false
		}
	}
	_, err := ParsePath(trimmed)
	return err == nil
}

// NodeAtPath returns the value path selects under root. The empty path
// and "_" select root.
func NodeAtPath(root value.Value, path string) (value.Value, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return value.Value{}, err
	}
	cur := root
	for i, seg := range segs {
		next, err := step(cur, seg)
		if err != nil {
			return value.Value{}, fmt.Errorf("%s: %w", FormatPath(segs[:i+1]), err)
		}
		cur = next
	}
	return cur, nil
}

func step(cur value.Value, seg Segment) (value.Value, error) {
	switch s := seg.(type) {
	case Field:
		return lookup(cur, s.Name)
	case QuotedKey:
		return lookup(cur, s.Name)
	case ArrayIndex:
		if cur.Kind() != value.List {
			return value.Value{}, fmt.Errorf("cannot index %s", cur.Kind())
		}
		items := cur.Items()
		idx := s.Index
		if idx < 0 {
			idx += len(items)
		}
		if idx < 0 || idx >= len(items) {
			return value.Value{}, fmt.Errorf("%w: index %d out of range (%d items)", ErrNotFound, s.Index, len(items))
		}
		return items[idx], nil
	}
	return value.Value{}, fmt.Errorf("unsupported path segment %T", seg)
}

// lookup finds key in a mapping. Numeric keys also index lists, so
// items.0 works like items[0].
func lookup(cur value.Value, key string) (value.Value, error) {
	switch cur.Kind() {
	case value.Mapping:
		if v, ok := cur.Get(key); ok {
			return v, nil
		}
		return value.Value{}, fmt.Errorf("%w: key %q", ErrNotFound, key)
	case value.List:
		n, err := strconv.Atoi(key)
		if err != nil {
			return value.Value{}, fmt.Errorf("expected numeric index into list but got %q", key)
		}
		return step(cur, ArrayIndex{Index: n})
	}
	return value.Value{}, fmt.Errorf("cannot descend into %s at %q", cur.Kind(), key)
}
