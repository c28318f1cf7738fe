// Package navigator resolves simple paths such as
// regions.asia.countries[0]["postal-code"] against a value without going
// through CEL, so the selected subtree keeps member order and exact
// number text.
package navigator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Segment is one step of a parsed path: a Field, a QuotedKey or an
// ArrayIndex.
type Segment interface {
	segment()
}

// Field is a dotted field name.
type Field struct {
	Name string
}

// QuotedKey is a key in bracket-quoted form: ["key"].
type QuotedKey struct {
	Name string
}

// ArrayIndex is a list index like [0]. Negative indexes count from the
// end.
type ArrayIndex struct {
	Index int
}

func (Field) segment()      {}
func (QuotedKey) segment()  {}
func (ArrayIndex) segment() {}

// ParsePath splits input into segments. A leading "_" root marker is
// dropped. Dots separate fields; brackets hold indexes or quoted keys.
func ParsePath(input string) ([]Segment, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "_":
		return nil, nil
	case strings.HasPrefix(input, "_."), strings.HasPrefix(input, "_["):
		input = input[1:]
	}

	var segs []Segment
	i := 0
	for i < len(input) {
		switch ch := input[i]; ch {
		case '.':
			i++
			continue
		case '[':
			end := closingBracket(input, i)
			if end < 0 {
				return nil, fmt.Errorf("path %q: unterminated bracket at offset %d", input, i)
			}
			seg, err := bracketSegment(input[i+1 : end])
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", input, err)
			}
			segs = append(segs, seg)
			i = end + 1
			continue
		}
		j := i
		for j < len(input) && input[j] != '.' && input[j] != '[' {
			j++
		}
		segs = append(segs, Field{Name: input[i:j]})
		i = j
	}
	return segs, nil
}

// closingBracket finds the ']' closing the bracket at open, skipping a
// quoted key that may itself contain ']'.
func closingBracket(s string, open int) int {
	i := open + 1
	if i < len(s) && s[i] == '"' {
		for i++; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == '"' {
				i++
				break
			}
		}
	}
	if j := strings.IndexByte(s[i:], ']'); j >= 0 {
		return i + j
	}
	return -1
}

func bracketSegment(inner string) (Segment, error) {
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, `"`) {
		name, err := strconv.Unquote(inner)
		if err != nil {
			return nil, fmt.Errorf("bad quoted key %s", inner)
		}
		return QuotedKey{Name: name}, nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return nil, fmt.Errorf("bad index [%s]", inner)
	}
	return ArrayIndex{Index: n}, nil
}

// FormatPath rebuilds a path from segments. Fields that are not plain
// identifiers are written in quoted form.
func FormatPath(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		switch s := s.(type) {
		case Field:
			if !isIdentifier(s.Name) {
				b.WriteString("[" + strconv.Quote(s.Name) + "]")
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name)
		case QuotedKey:
			b.WriteString("[" + strconv.Quote(s.Name) + "]")
		case ArrayIndex:
			b.WriteString("[" + strconv.Itoa(s.Index) + "]")
		}
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return true
}
