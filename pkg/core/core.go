// Package core bundles loading, selection and rendering behind one Engine
// for programs that embed the viewer.
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jsonview/internal/cel"
	"github.com/oakwood-commons/jsonview/internal/navigator"
	"github.com/oakwood-commons/jsonview/pkg/loader"
	"github.com/oakwood-commons/jsonview/pkg/value"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

// Evaluator evaluates expressions against a root value.
type Evaluator interface {
	Evaluate(expr string, root value.Value) (value.Value, error)
}

// Navigator resolves plain paths.
type Navigator interface {
	IsSimplePath(expr string) bool
	NodeAtPath(root value.Value, path string) (value.Value, error)
}

// Engine provides a minimal shared API for loading, selecting and rendering
// data.
type Engine struct {
	Evaluator Evaluator
	Navigator Navigator
	Loader    *loader.Loader
	Logger    logr.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithNavigator sets a custom navigator.
func WithNavigator(n Navigator) Option {
	return func(c *Engine) {
		c.Navigator = n
	}
}

// WithLoader sets the loader used by Load and LoadFile.
func WithLoader(l *loader.Loader) Option {
	return func(c *Engine) {
		c.Loader = l
	}
}

// WithLogger sets the logger passed on to rendered instances.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Engine) {
		c.Logger = lgr
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{Logger: logr.Discard()}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}
	if engine.Navigator == nil {
		engine.Navigator = defaultNavigator{}
	}
	if engine.Loader == nil {
		engine.Loader = loader.New(loader.WithLogger(engine.Logger))
	}
	return engine, nil
}

// Load reads r and parses it into a single root value.
func (e *Engine) Load(r io.Reader) (value.Value, error) {
	return e.Loader.LoadReader(r)
}

// LoadFile reads a file and parses it into a single root value.
func (e *Engine) LoadFile(path string) (value.Value, error) {
	return e.Loader.LoadFile(path)
}

// Select applies expr to root. Plain paths are walked by the navigator so
// the result keeps member order and exact numbers; anything else goes to
// the evaluator. An empty expression selects root.
func (e *Engine) Select(expr string, root value.Value) (value.Value, error) {
	if e == nil || e.Evaluator == nil || e.Navigator == nil {
		return value.Value{}, fmt.Errorf("engine is not configured")
	}
	if expr == "" {
		return root, nil
	}
	if e.Navigator.IsSimplePath(expr) {
		e.Logger.V(1).Info("selecting path", "path", expr)
		out, err := e.Navigator.NodeAtPath(root, expr)
		if err != nil {
			return value.Value{}, fmt.Errorf("select %q: %w", expr, err)
		}
		return out, nil
	}
	out, err := e.Evaluator.Evaluate(expr, root)
	if err != nil {
		return value.Value{}, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	return out, nil
}

// Render builds a viewer for root and runs every queued chunk.
func (e *Engine) Render(ctx context.Context, root value.Value, opts viewer.Options) (*viewer.Instance, error) {
	inst := viewer.RenderViewer(ctx, nil, root, opts, viewer.WithLogger(e.Logger))
	if _, err := inst.Drain(ctx); err != nil {
		inst.Close()
		return nil, err
	}
	return inst, nil
}

// WritePage renders root and writes it to w as a standalone HTML page.
func (e *Engine) WritePage(ctx context.Context, w io.Writer, root value.Value, opts viewer.Options, page viewer.PageOptions) error {
	inst, err := e.Render(ctx, root, opts)
	if err != nil {
		return err
	}
	defer inst.Close()
	return viewer.WritePage(w, inst, page)
}

type defaultNavigator struct{}

func (defaultNavigator) IsSimplePath(expr string) bool {
	return navigator.IsSimplePath(expr)
}

func (defaultNavigator) NodeAtPath(root value.Value, path string) (value.Value, error) {
	return navigator.NodeAtPath(root, path)
}
