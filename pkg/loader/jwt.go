package loader

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

func trimJWT(input string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
}

// IsJWT reports whether input looks like a compact JWT: three non-empty
// base64url parts, the first two holding JSON objects. A "Bearer " prefix
// is ignored.
func IsJWT(input string) bool {
	parts := strings.Split(trimJWT(input), ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	for _, part := range parts[:2] {
		decoded, err := base64.RawURLEncoding.DecodeString(part)
		if err != nil {
			return false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(decoded, &obj); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a JWT into a mapping with header, payload and signature
// members. Claims keep their order. The signature stays base64url text. No
// signature verification happens.
func DecodeJWT(input string, bigNumber value.BigNumberFunc) (value.Value, error) {
	parts := strings.Split(trimJWT(input), ".")
	if len(parts) != 3 {
		return value.Value{}, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}
	header, err := decodeJWTPart(parts[0], bigNumber)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTPart(parts[1], bigNumber)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return value.NewMapping(
		value.Member{Key: "header", Value: header},
		value.Member{Key: "payload", Value: payload},
		value.Member{Key: "signature", Value: value.NewString(parts[2])},
	), nil
}

func decodeJWTPart(part string, bigNumber value.BigNumberFunc) (value.Value, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return value.Value{}, err
	}
	v, err := value.Decode(raw, bigNumber)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind() != value.Mapping {
		return value.Value{}, errors.New("not a JSON object")
	}
	return v, nil
}

func (l *Loader) loadJWT(input string) ([]value.Value, error) {
	v, err := DecodeJWT(input, l.bigNumber)
	if err != nil {
		return nil, err
	}
	return []value.Value{v}, nil
}
