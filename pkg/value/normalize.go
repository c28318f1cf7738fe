package value

import (
	"encoding"
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
	"strconv"
)

// BigNumberFunc reports whether x is an arbitrary-precision number wrapper
// and, if so, its exact decimal text.
type BigNumberFunc func(x any) (text string, ok bool)

// losslessNumber is implemented by wrapper types that mark themselves as
// carrying an exact numeric value.
type losslessNumber interface {
	IsLosslessNumber() bool
}

// DefaultBigNumber recognizes the arbitrary-precision number types of the
// standard library, wrappers that expose an IsLosslessNumber marker, and
// json.Number values whose text would change when read as a float64.
func DefaultBigNumber(x any) (string, bool) {
	switch n := x.(type) {
	case *big.Int:
		if n == nil {
			return "", false
		}
		return n.String(), true
	case *big.Float:
		if n == nil {
			return "", false
		}
		return n.Text('g', -1), true
	case *big.Rat:
		if n == nil {
			return "", false
		}
		if n.IsInt() {
			return n.Num().String(), true
		}
		return n.FloatString(20), true
	case json.Number:
		return string(n), !fitsFloat64(string(n))
	case losslessNumber:
		if !n.IsLosslessNumber() {
			return "", false
		}
		if s, ok := x.(interface{ String() string }); ok {
			return s.String(), true
		}
		if m, ok := x.(encoding.TextMarshaler); ok {
			if b, err := m.MarshalText(); err == nil {
				return string(b), true
			}
		}
	}
	return "", false
}

// IsBigNumberLike reports whether DefaultBigNumber recognizes x.
func IsBigNumberLike(x any) bool {
	_, ok := DefaultBigNumber(x)
	return ok
}

// fitsFloat64 reports whether the number literal text denotes the same
// rational as the shortest float64 representation of its parsed value.
func fitsFloat64(text string) bool {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false
	}
	want, ok := new(big.Rat).SetString(text)
	if !ok {
		return false
	}
	got, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return false
	}
	return want.Cmp(got) == 0
}

// Normalizer converts arbitrary Go values into Values.
type Normalizer struct {
	// BigNumber probes for arbitrary-precision wrappers. Nil disables the
	// probe entirely.
	BigNumber BigNumberFunc
}

// FromNative normalizes x using DefaultBigNumber.
func FromNative(x any) Value {
	return Normalizer{BigNumber: DefaultBigNumber}.Normalize(x)
}

// Normalize converts x into a Value. Maps are emitted with sorted keys since
// Go maps carry no order. Structs and other marshalable types go through
// their JSON encoding. Anything without a JSON form becomes Invalid.
func (n Normalizer) Normalize(x any) Value {
	if x == nil {
		return NewNull()
	}
	if v, ok := x.(Value); ok {
		return v
	}
	if n.BigNumber != nil {
		if text, ok := n.BigNumber(x); ok {
			return NewBigNumber(text)
		}
	}

	switch t := x.(type) {
	case bool:
		return NewBool(t)
	case string:
		return NewString(t)
	case json.Number:
		return NewNumber(string(t))
	case float64:
		return NewFloat(t)
	case float32:
		return NewNumber(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case int:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = n.Normalize(e)
		}
		return NewList(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: n.Normalize(t[k])}
		}
		return NewMapping(members...)
	case []byte:
		return NewString(string(t))
	case json.Marshaler:
		// Named types like json.RawMessage carry their own encoding.
		return n.viaJSON(t)
	}

	return n.reflectValue(reflect.ValueOf(x))
}

func (n Normalizer) reflectValue(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return NewNull()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewNull()
		}
		if rv.Kind() == reflect.Pointer && rv.CanInterface() {
			if _, ok := rv.Interface().(json.Marshaler); ok {
				return n.viaJSON(rv.Interface())
			}
		}
		return n.Normalize(rv.Elem().Interface())
	case reflect.Bool:
		return NewBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NewUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float())
	case reflect.String:
		return NewString(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return NewNull()
		}
		fallthrough
	case reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = n.Normalize(rv.Index(i).Interface())
		}
		return NewList(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return n.viaJSON(rv.Interface())
		}
		if rv.IsNil() {
			return NewNull()
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: n.Normalize(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())}
		}
		return NewMapping(members...)
	case reflect.Struct:
		return n.viaJSON(rv.Interface())
	default:
		return Value{}
	}
}

// viaJSON normalizes x through its JSON encoding, keeping member order and
// exact number text.
func (n Normalizer) viaJSON(x any) Value {
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}
	}
	v, err := Decode(data, n.BigNumber)
	if err != nil {
		return Value{}
	}
	return v
}
