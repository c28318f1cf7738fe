package loader

import "github.com/oakwood-commons/jsonview/pkg/value"

const maxExpandDepth = 20

// TryDecode parses s as serialized data (JWT, JSON, YAML, TOML, NDJSON).
// It succeeds only when the result is a list or mapping, so plain text and
// scalars report false.
func (l *Loader) TryDecode(s string) (value.Value, bool) {
	if s == "" {
		return value.Value{}, false
	}
	ll := *l
	ll.format = FormatAuto
	v, err := ll.LoadRoot([]byte(s))
	if err != nil || !v.IsContainer() {
		return value.Value{}, false
	}
	return v, true
}

// ExpandStrings replaces every string leaf of v that holds serialized
// structured data with its parsed form, recursing into the result.
func (l *Loader) ExpandStrings(v value.Value) value.Value {
	return l.expand(v, 0)
}

func (l *Loader) expand(v value.Value, depth int) value.Value {
	if depth > maxExpandDepth {
		return v
	}
	switch v.Kind() {
	case value.List:
		items := make([]value.Value, len(v.Items()))
		for i, item := range v.Items() {
			items[i] = l.expand(item, depth+1)
		}
		return value.NewList(items...)
	case value.Mapping:
		members := make([]value.Member, len(v.Members()))
		for i, m := range v.Members() {
			members[i] = value.Member{Key: m.Key, Value: l.expand(m.Value, depth+1)}
		}
		return value.NewMapping(members...)
	case value.String:
		if decoded, ok := l.TryDecode(v.Text()); ok {
			return l.expand(decoded, depth+1)
		}
	}
	return v
}
