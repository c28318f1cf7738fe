// Package value defines the tagged JSON value model rendered by the viewer.
//
// A Value is decided once, at normalization time, to be one of a closed set
// of kinds. Renderers switch on Kind instead of probing the dynamic shape of
// arbitrary Go values at every recursion step.
package value

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// Invalid marks an input that has no JSON representation (channels,
	// functions, complex numbers). It renders as nothing.
	Invalid Kind = iota
	Null
	Number
	Bool
	String
	List
	Mapping
	// BigNumber is an arbitrary-precision number whose exact text does not
	// survive a float64 round trip.
	BigNumber
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Null:      "null",
	Number:    "number",
	Bool:      "bool",
	String:    "string",
	List:      "list",
	Mapping:   "mapping",
	BigNumber: "bignumber",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable JSON-shaped value.
type Value struct {
	kind    Kind
	text    string
	approx  float64
	b       bool
	items   []Value
	members []Member
}

// A Member is one key/value pair of a Mapping, in source order.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: Null} }

// NewBool returns a Boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, text: s} }

// NewNumber returns a number carrying its literal text. The text is kept
// verbatim so that numbers read from a document render exactly as written.
func NewNumber(text string) Value {
	f, _ := strconv.ParseFloat(text, 64)
	return Value{kind: Number, text: text, approx: f}
}

// NewInt returns an integer number.
func NewInt(i int64) Value {
	return Value{kind: Number, text: strconv.FormatInt(i, 10), approx: float64(i)}
}

// NewUint returns an unsigned integer number.
func NewUint(u uint64) Value {
	return Value{kind: Number, text: strconv.FormatUint(u, 10), approx: float64(u)}
}

// NewFloat returns a floating-point number formatted in its shortest form.
func NewFloat(f float64) Value {
	return Value{kind: Number, text: FormatFloat(f), approx: f}
}

// NewBigNumber returns an arbitrary-precision number with the given exact text.
func NewBigNumber(text string) Value {
	f, _ := strconv.ParseFloat(text, 64)
	return Value{kind: BigNumber, text: text, approx: f}
}

// NewList returns an ordered list.
func NewList(items ...Value) Value {
	return Value{kind: List, items: items}
}

// NewMapping returns an ordered mapping. Keys are not deduplicated.
func NewMapping(members ...Member) Value {
	return Value{kind: Mapping, members: members}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the literal text of a Number or BigNumber, the contents of a
// String, "true"/"false" for a Bool and "null" for Null.
func (v Value) Text() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return v.text
	}
}

// Bool returns the Boolean held by v.
func (v Value) Bool() bool { return v.b }

// Float returns the float64 approximation of a Number or BigNumber.
func (v Value) Float() float64 { return v.approx }

// Items returns the elements of a List.
func (v Value) Items() []Value { return v.items }

// Members returns the members of a Mapping.
func (v Value) Members() []Member { return v.members }

// Len returns the number of entries of a List or Mapping, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case List:
		return len(v.items)
	case Mapping:
		return len(v.members)
	default:
		return 0
	}
}

// IsContainer reports whether v is a List or Mapping.
func (v Value) IsContainer() bool { return v.kind == List || v.kind == Mapping }

// Get returns the value of the first member named key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// MarshalJSON encodes v as compact JSON, preserving member order. Invalid
// values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Number, BigNumber:
		buf.WriteString(v.text)
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case String:
		buf.WriteString(QuoteString(v.text))
	case List:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Mapping:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(QuoteString(m.Key))
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// QuoteString returns s as a JSON string literal without HTML escaping.
func QuoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// FormatFloat formats f the way a browser prints a number: positional
// notation for ordinary magnitudes, exponent form below 1e-6 and from 1e21.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
