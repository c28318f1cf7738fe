package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{ExitOnError: true}, got)
}

func TestInputName(t *testing.T) {
	assert.Equal(t, "stdin", Input{FromStdin: true}.Name())
	assert.Equal(t, "data.json", Input{Path: "data.json"}.Name())
}
