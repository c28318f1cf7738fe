package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

func TestTryDecode(t *testing.T) {
	l := New()
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "empty", input: ""},
		{name: "plain text", input: "hello world"},
		{name: "number", input: "42"},
		{name: "json object", input: `{"a": 1}`, want: `{"a":1}`, ok: true},
		{name: "json array", input: `[1, 2]`, want: `[1,2]`, ok: true},
		{name: "yaml mapping", input: "a: 1\nb: two", want: `{"a":1,"b":"two"}`, ok: true},
		{name: "jwt", input: validJWT, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.TryDecode(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.want != "" {
				assert.Equal(t, tt.want, jsonText(t, got))
			}
		})
	}
}

func TestTryDecodeIgnoresForcedFormat(t *testing.T) {
	_, ok := New(WithFormat(FormatTOML)).TryDecode(`{"a": 1}`)
	assert.True(t, ok)
}

func TestExpandStrings(t *testing.T) {
	in := value.NewMapping(
		value.Member{Key: "name", Value: value.NewString("plain")},
		value.Member{Key: "config", Value: value.NewString(`{"inner": "{\"deep\": true}"}`)},
		value.Member{Key: "list", Value: value.NewList(value.NewString("x: 1"), value.NewInt(3))},
	)
	out := New().ExpandStrings(in)
	assert.Equal(t, `{"name":"plain","config":{"inner":{"deep":true}},"list":[{"x":1},3]}`, jsonText(t, out))
	assert.Equal(t, `"plain"`, jsonText(t, in.Members()[0].Value), "input is not modified")
}

func TestExpandStringsDepthLimit(t *testing.T) {
	v := value.NewString("[1]")
	for range maxExpandDepth + 5 {
		v = value.NewList(v)
	}
	out := New().ExpandStrings(v)
	for out.Kind() == value.List && out.Len() == 1 && out.Items()[0].Kind() == value.List {
		out = out.Items()[0]
	}
	assert.Equal(t, value.String, out.Items()[0].Kind())
}
