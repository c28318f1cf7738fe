package value

import "strconv"

// Native converts v into plain Go values: nil, bool, int64 or float64,
// string, []any and map[string]any. BigNumbers become their float64
// approximation. Member order is lost.
func (v Value) Native() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}
		return v.approx
	case BigNumber:
		return v.approx
	case String:
		return v.text
	case List:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Native()
		}
		return out
	case Mapping:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Native()
		}
		return out
	default:
		return nil
	}
}
