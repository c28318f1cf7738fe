// Package limiter trims the top-level list or mapping before rendering.
package limiter

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

// ErrInvalid marks a rejected flag combination.
var ErrInvalid = errors.New("invalid record limit")

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); excludes Limit
}

// Validate rejects negative values and Limit combined with Tail. Offset is
// ignored when Tail is set.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("%w: --limit must be non-negative, got %d", ErrInvalid, c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("%w: --offset must be non-negative, got %d", ErrInvalid, c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("%w: --tail must be non-negative, got %d", ErrInvalid, c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("%w: --limit and --tail are mutually exclusive", ErrInvalid)
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply returns the limited subset of a list or mapping. Mappings are
// limited in member order. Scalars are returned unchanged.
func (c Config) Apply(v value.Value) value.Value {
	if !c.IsActive() {
		return v
	}
	switch v.Kind() {
	case value.List:
		start, end := c.Bounds(v.Len())
		return value.NewList(v.Items()[start:end]...)
	case value.Mapping:
		start, end := c.Bounds(v.Len())
		return value.NewMapping(v.Members()[start:end]...)
	}
	return v
}

// Bounds returns the half-open range of a length-n sequence kept by c.
func (c Config) Bounds(n int) (start, end int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}
