// Package cel selects the part of a document to render with a CEL
// expression. The document is bound to the variable "_".
package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/jsonview/pkg/value"
)

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the strings, encoders, lists and
// math extensions loaded.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Evaluate runs expr against v and converts the result back to a Value.
// Numbers pass through CEL as int64 or double, so big numbers lose
// precision. Mappings produced by CEL come back with sorted keys.
//
// Example: "_.items.filter(x, x.available)".
func (e *Evaluator) Evaluate(expr string, v value.Value) (value.Value, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return value.Value{}, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return value.Value{}, fmt.Errorf("program error: %w", err)
	}
	result, _, err := prg.Eval(map[string]any{"_": v.Native()})
	if err != nil {
		return value.Value{}, fmt.Errorf("eval error: %w", err)
	}
	return ToValue(result), nil
}

// ToValue converts a CEL result into a Value.
func ToValue(val ref.Val) value.Value {
	if val == nil {
		return value.NewNull()
	}
	switch v := val.(type) {
	case types.Null:
		return value.NewNull()
	case types.Bool:
		return value.NewBool(bool(v))
	case types.Int:
		return value.NewInt(int64(v))
	case types.Uint:
		return value.NewUint(uint64(v))
	case types.Double:
		return value.NewFloat(float64(v))
	case types.String:
		return value.NewString(string(v))
	case types.Bytes:
		return value.NewString(string(v))
	case types.Timestamp, types.Duration:
		return value.NewString(fmt.Sprint(v.ConvertToType(types.StringType).Value()))
	case traits.Mapper:
		return mapperToValue(v)
	case traits.Lister:
		var items []value.Value
		for it := v.Iterator(); it.HasNext() == types.True; {
			items = append(items, ToValue(it.Next()))
		}
		return value.NewList(items...)
	}
	return value.FromNative(val.Value())
}

func mapperToValue(m traits.Mapper) value.Value {
	type entry struct {
		key string
		val ref.Val
	}
	var entries []entry
	for it := m.Iterator(); it.HasNext() == types.True; {
		k := it.Next()
		key, ok := k.(types.String)
		name := string(key)
		if !ok {
			name = fmt.Sprint(k.Value())
		}
		entries = append(entries, entry{key: name, val: m.Get(k)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	members := make([]value.Member, len(entries))
	for i, e := range entries {
		members[i] = value.Member{Key: e.key, Value: ToValue(e.val)}
	}
	return value.NewMapping(members...)
}

// Functions lists the functions and macros usable in expressions, one
// "name() - usage" entry per overload, sorted.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 100)
	add := func(entry string) {
		if !seen[entry] {
			seen[entry] = true
			out = append(out, entry)
		}
	}
	for _, fn := range e.env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		for _, o := range fn.OverloadDecls() {
			add(fn.Name() + "() - " + usageFromOverload(fn.Name(), o))
		}
	}
	for _, m := range e.env.Macros() {
		if isOperator(m.Function()) {
			continue
		}
		add(m.Function() + "() - CEL macro")
	}
	sort.Strings(out)
	return out
}

// isOperator filters internal operator declarations such as _+_ and @in.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]":
		return true
	}
	return false
}

func typeLabel(t *types.Type) string {
	if t == nil {
		return "any"
	}
	if name := t.DeclaredTypeName(); name != "" {
		return name
	}
	if name := t.TypeName(); name != "" {
		return name
	}
	return "any"
}

func formatParams(params []*types.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typeLabel(p)
	}
	return strings.Join(parts, ", ")
}

func usageFromOverload(name string, o *decls.OverloadDecl) string {
	params := o.ArgTypes()
	call := name + "(" + formatParams(params) + ")"
	if o.IsMemberFunction() && len(params) > 0 {
		call = typeLabel(params[0]) + "." + name + "(" + formatParams(params[1:]) + ")"
	}
	if o.ResultType() != nil {
		call += " -> " + typeLabel(o.ResultType())
	}
	return call
}
