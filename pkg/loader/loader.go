// Package loader reads JSON, NDJSON, YAML, TOML and JWT input into
// values ready for rendering. JSON and YAML keep member order and exact
// number text.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

var (
	// ErrEmptyInput is returned for input holding only whitespace.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnknownFormat is returned for a format name the loader lacks.
	ErrUnknownFormat = errors.New("unknown input format")
)

// Format names an input syntax.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatJWT    Format = "jwt"
)

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatNDJSON, FormatYAML, FormatTOML, FormatJWT:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "jsonl":
		return FormatNDJSON, nil
	}
	return "", fmt.Errorf("%w %q (want auto, json, ndjson, yaml, toml or jwt)", ErrUnknownFormat, s)
}

// FormatForPath guesses the format from a file extension, or FormatAuto.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".jwt":
		return FormatJWT
	}
	return FormatAuto
}

// Loader parses input into values.
type Loader struct {
	format    Format
	bigNumber value.BigNumberFunc
	log       logr.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFormat forces a format instead of detecting it.
func WithFormat(f Format) Option {
	return func(l *Loader) { l.format = f }
}

// WithBigNumber sets the predicate marking numbers that do not fit a
// float64. The default is value.DefaultBigNumber.
func WithBigNumber(fn value.BigNumberFunc) Option {
	return func(l *Loader) { l.bigNumber = fn }
}

// WithLogger records format detection and fallbacks.
func WithLogger(lgr logr.Logger) Option {
	return func(l *Loader) { l.log = lgr }
}

// New returns a Loader detecting the input format.
func New(opts ...Option) *Loader {
	l := &Loader{
		format:    FormatAuto,
		bigNumber: value.DefaultBigNumber,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadData parses every document in input. With FormatAuto the syntax is
// detected: JWT, multi-document YAML, NDJSON, TOML, JSON and finally YAML.
func (l *Loader) LoadData(input []byte) ([]value.Value, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return nil, ErrEmptyInput
	}
	format := l.format
	if format == FormatAuto {
		format = DetectFormat(string(trimmed))
		l.log.V(1).Info("detected input format", "format", string(format))
	}

	auto := l.format == FormatAuto
	switch format {
	case FormatJWT:
		return l.loadJWT(string(trimmed))
	case FormatNDJSON:
		if auto {
			// Concatenated documents, pretty-printed or not, read as JSON.
			if docs, err := l.loadJSON(trimmed); err == nil {
				return docs, nil
			}
		}
		return l.loadNDJSON(string(trimmed))
	case FormatTOML:
		if auto && looksLikeJSON(trimmed) {
			// ["a"] is both a JSON array and a TOML table header.
			if docs, err := l.loadJSON(trimmed); err == nil {
				return docs, nil
			}
		}
		return l.loadTOML(trimmed)
	case FormatYAML:
		return l.loadYAML(trimmed)
	case FormatJSON:
		docs, err := l.loadJSON(trimmed)
		if err != nil && auto {
			// Flow-style YAML such as {a: 1} starts like JSON.
			l.log.V(1).Info("JSON parse failed, retrying as YAML", "error", err.Error())
			return l.loadYAML(trimmed)
		}
		return docs, err
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func looksLikeJSON(input []byte) bool {
	return len(input) > 0 && (input[0] == '{' || input[0] == '[')
}

// LoadRoot parses input into a single value. Several documents are
// returned as a list.
func (l *Loader) LoadRoot(input []byte) (value.Value, error) {
	docs, err := l.LoadData(input)
	if err != nil {
		return value.Value{}, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return value.NewList(docs...), nil
}

// LoadReader reads r to the end and parses it with LoadRoot.
func (l *Loader) LoadReader(r io.Reader) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Value{}, fmt.Errorf("read input: %w", err)
	}
	return l.LoadRoot(data)
}

// LoadFile reads path and parses it with LoadRoot. Without a forced
// format the file extension picks one.
func (l *Loader) LoadFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	ll := *l
	if ll.format == FormatAuto {
		ll.format = FormatForPath(path)
	}
	v, err := ll.LoadRoot(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadRoot parses input with a default Loader.
func LoadRoot(input string) (value.Value, error) {
	return New().LoadRoot([]byte(input))
}

// LoadFile parses a file with a default Loader.
func LoadFile(path string) (value.Value, error) {
	return New().LoadFile(path)
}

// DetectFormat guesses the syntax of trimmed, non-empty input.
func DetectFormat(input string) Format {
	switch {
	case IsJWT(input):
		return FormatJWT
	case strings.Contains(input, "\n---") || strings.HasPrefix(input, "---"):
		return FormatYAML
	}
	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		return FormatNDJSON
	}
	// TOML [section] headers look like JSON arrays, so TOML is checked first.
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") || strings.HasPrefix(input, `"`) {
		return FormatJSON
	}
	return FormatYAML
}

// loadJSON reads one or more concatenated JSON documents.
func (l *Loader) loadJSON(input []byte) ([]value.Value, error) {
	dec := value.NewDecoder(bytes.NewReader(input), l.bigNumber)
	var docs []value.Value
	for dec.More() {
		v, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		docs = append(docs, v)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return docs, nil
}

// loadNDJSON parses one JSON document per line. Lines that are not JSON
// are kept as plain strings.
func (l *Loader) loadNDJSON(input string) ([]value.Value, error) {
	lines := strings.Split(input, "\n")
	docs := make([]value.Value, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := value.Decode([]byte(line), l.bigNumber)
		if err != nil {
			l.log.V(1).Info("keeping non-JSON line as string", "line", i+1)
			v = value.NewString(line)
		}
		docs = append(docs, v)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return docs, nil
}

// loadTOML parses a TOML document. TOML tables decode into Go maps, so
// their keys come out sorted.
func (l *Loader) loadTOML(input []byte) ([]value.Value, error) {
	var data map[string]any
	if err := toml.Unmarshal(input, &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	norm := value.Normalizer{BigNumber: l.bigNumber}
	return []value.Value{norm.Normalize(data)}, nil
}

func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmpty := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]
	tomlSection = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", "table name" = 1, database.host = "localhost"
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

func isLikelyTOML(input string) bool {
	sections, pairs, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			pairs++
		}
	}
	return sections > 0 || (nonEmpty > 0 && pairs > nonEmpty/2)
}
