package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantOk bool
	}{
		{name: "with settings", ctx: IntoContext(context.Background(), &Run{NoColor: true}), wantOk: true},
		{name: "without settings", ctx: context.Background()},
		{name: "nil settings", ctx: IntoContext(context.Background(), nil)},
		{name: "wrong type", ctx: context.WithValue(context.Background(), runKey{}, "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				require.NotNil(t, got)
			}
		})
	}
}

func TestRoundTripKeepsPointer(t *testing.T) {
	s := &Run{Interactive: true, Input: Input{Path: "a.json"}}
	got, ok := FromContext(IntoContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestFromContextOrDefault(t *testing.T) {
	assert.Equal(t, NewCliParams(), FromContextOrDefault(context.Background()))
	s := &Run{NoColor: true}
	assert.Same(t, s, FromContextOrDefault(IntoContext(context.Background(), s)))
}
