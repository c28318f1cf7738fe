package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned by Decode when the input holds more than one
// JSON document.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Decoder reads a stream of JSON documents into Values, preserving object
// member order and exact number text.
type Decoder struct {
	dec  *json.Decoder
	norm Normalizer
}

// NewDecoder returns a Decoder reading from r. Numbers recognized by
// bigNumber decode as BigNumber; a nil bigNumber keeps every number as a
// plain Number.
func NewDecoder(r io.Reader, bigNumber BigNumberFunc) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Decoder{dec: dec, norm: Normalizer{BigNumber: bigNumber}}
}

// More reports whether another document is available.
func (d *Decoder) More() bool { return d.dec.More() }

// Decode reads the next document.
func (d *Decoder) Decode() (Value, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return Value{}, err
	}
	return d.fromToken(tok)
}

func (d *Decoder) fromToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return d.norm.Normalize(t), nil
	case json.Delim:
		switch t {
		case '[':
			return d.list()
		case '{':
			return d.mapping()
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q at offset %d", t, d.dec.InputOffset())
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func (d *Decoder) list() (Value, error) {
	var items []Value
	for d.dec.More() {
		v, err := d.Decode()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return Value{}, err
	}
	return NewList(items...), nil
}

func (d *Decoder) mapping() (Value, error) {
	var members []Member
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is %T, want string", tok)
		}
		v, err := d.Decode()
		if err != nil {
			return Value{}, fmt.Errorf("member %q: %w", key, err)
		}
		members = append(members, Member{Key: key, Value: v})
	}
	if _, err := d.dec.Token(); err != nil {
		return Value{}, err
	}
	return NewMapping(members...), nil
}

// Decode parses exactly one JSON document from data.
func Decode(data []byte, bigNumber BigNumberFunc) (Value, error) {
	d := NewDecoder(bytes.NewReader(data), bigNumber)
	v, err := d.Decode()
	if err != nil {
		return Value{}, err
	}
	if d.More() {
		return Value{}, ErrTrailingData
	}
	return v, nil
}
