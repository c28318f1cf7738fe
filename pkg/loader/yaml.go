package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

// maxAliasDepth bounds alias expansion so a self-referencing anchor cannot
// recurse forever.
const maxAliasDepth = 64

var errAliasDepth = errors.New("alias nesting too deep")

// loadYAML reads every document of a YAML stream. Documents are decoded
// into yaml.Node trees so mapping keys keep their source order.
func (l *Loader) loadYAML(input []byte) ([]value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(input))
	var docs []value.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if node.Kind == 0 {
			continue
		}
		v, err := l.fromYAML(&node, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		docs = append(docs, v)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return docs, nil
}

func (l *Loader) fromYAML(n *yaml.Node, depth int) (value.Value, error) {
	if depth > maxAliasDepth {
		return value.Value{}, errAliasDepth
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.NewNull(), nil
		}
		return l.fromYAML(n.Content[0], depth)
	case yaml.AliasNode:
		return l.fromYAML(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := l.fromYAML(c, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.NewList(items...), nil
	case yaml.MappingNode:
		members := make([]value.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				merged, err := l.mergeKeys(v, depth+1)
				if err != nil {
					return value.Value{}, err
				}
				members = append(members, merged...)
				continue
			}
			val, err := l.fromYAML(v, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			members = append(members, value.Member{Key: k.Value, Value: val})
		}
		return value.NewMapping(members...), nil
	case yaml.ScalarNode:
		return l.yamlScalar(n), nil
	}
	return value.Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mergeKeys expands a "<<" key whose value is a mapping or a list of
// mappings.
func (l *Loader) mergeKeys(n *yaml.Node, depth int) ([]value.Member, error) {
	v, err := l.fromYAML(n, depth)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case value.Mapping:
		return v.Members(), nil
	case value.List:
		var out []value.Member
		for _, item := range v.Items() {
			out = append(out, item.Members()...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value is not a mapping", n.Line)
}

func (l *Loader) yamlScalar(n *yaml.Node) value.Value {
	switch n.ShortTag() {
	case "!!null":
		return value.NewNull()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return value.NewBool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.NewInt(i)
		}
		if bi, ok := new(big.Int).SetString(n.Value, 0); ok {
			return value.Normalizer{BigNumber: l.bigNumber}.Normalize(bi)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			if _, err := strconv.ParseFloat(n.Value, 64); err == nil {
				// Decimal text such as 1.50 renders as written.
				return value.Normalizer{BigNumber: l.bigNumber}.Normalize(json.Number(n.Value))
			}
			return value.NewFloat(f)
		}
	}
	return value.NewString(n.Value)
}
