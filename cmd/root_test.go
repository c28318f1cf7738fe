package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonview/internal/ui"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

// execute runs the root command with an isolated config directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootWritesHTMLWhenPiped(t *testing.T) {
	out, err := execute(t, `{"a":1,"url":"https://example.com"}`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>JSON</title>")
	assert.Contains(t, out, `<div class="json-document">`)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "<script>")
}

func TestRootPageOptions(t *testing.T) {
	out, err := execute(t, `[1]`, "-o", "html", "--title", "Report", "--caption", "from *ci*", "--static", "--theme", "light")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Report</title>")
	assert.Contains(t, out, "<em>ci</em>")
	assert.NotContains(t, out, "<script>")
}

func TestRootTextOutput(t *testing.T) {
	out, err := execute(t, `{"a":[1,2]}`, "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  ▾ \"a\": [\n    1,\n    2\n  ]\n}\n", out)
}

func TestRootViewerFlags(t *testing.T) {
	out, err := execute(t, `{"a":[1,2]}`, "-o", "text", "--collapsed")
	require.NoError(t, err)
	assert.Equal(t, "▸ {1 item}\n", out)

	out, err = execute(t, `{"a":1}`, "-o", "text", "--quote-keys=false", "--root-collapsible=false")
	require.NoError(t, err)
	assert.Equal(t, "{\n  a: 1\n}\n", out)

	out, err = execute(t, `[1,2,3]`, "-o", "fragment", "--chunk-size", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "<ol class=\"json-array\"></ol>")
}

func TestRootConfigFileLayers(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "viewer:\n  collapsed: true\noutput:\n  format: text\n")

	out, err := execute(t, `{"a":1}`, "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "▸ {1 item}\n", out)

	out, err = execute(t, `{"a":1}`, "--config-file", cfgPath, "--collapsed=false")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  \"a\": 1\n}\n", out)

	_, err = execute(t, `{}`, "--config-file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRootExpression(t *testing.T) {
	out, err := execute(t, `{"items":[1,2,3]}`, "-o", "text", "-e", "_.items.filter(x, x > 1)")
	require.NoError(t, err)
	assert.Equal(t, "▾ [\n  2,\n  3\n]\n", out)

	_, err = execute(t, `{}`, "-e", "_.(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation error")
	assert.Equal(t, 1, ExitCode(err))
}

func TestRootPathSelection(t *testing.T) {
	out, err := execute(t, `{"items":[{"z":1,"a":2}]}`, "-o", "text", "-e", "_.items[0]")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  \"z\": 1,\n  \"a\": 2\n}\n", out, "paths keep member order")

	_, err = execute(t, `{"items":[]}`, "-e", "items[3]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path not found")
}

func TestRootLimits(t *testing.T) {
	out, err := execute(t, `[1,2,3]`, "-o", "text", "--tail", "1")
	require.NoError(t, err)
	assert.Equal(t, "▾ [\n  3\n]\n", out)

	out, err = execute(t, `{"a":1,"b":2,"c":3}`, "-o", "text", "--offset", "1", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  \"b\": 2\n}\n", out)

	_, err = execute(t, `[1]`, "--limit", "1", "--tail", "1")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestRootValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"output", []string{"-o", "pdf"}, "invalid output"},
		{"theme", []string{"--theme", "neon"}, "neon"},
		{"format", []string{"--format", "xml"}, "unknown input format"},
		{"keymap", []string{"--keymap", "nano"}, "invalid key mode"},
		{"array style", []string{"--array-style", "stars"}, "invalid array-style"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, `{}`, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}

func TestRootLoadError(t *testing.T) {
	_, err := execute(t, "", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load stdin")
	assert.Equal(t, 1, ExitCode(err))
}

func TestRootFileInputAndOutputFile(t *testing.T) {
	in := writeFile(t, "data.yaml", "name: demo\ntags: [a, b]\n")
	outPath := filepath.Join(t.TempDir(), "out.html")

	out, err := execute(t, "", in, "--output-file", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `&#34;demo&#34;`)
	assert.Contains(t, string(data), `class="json-array"`)
}

func TestRootTreeOutput(t *testing.T) {
	out, err := execute(t, `{"a":{"b":1},"list":[1,2]}`, "-o", "tree", "--tree-expand-arrays", "--array-style", "numbered")
	require.NoError(t, err)
	assert.Contains(t, out, "├── a\n│   └── b: 1\n")
	assert.Contains(t, out, "└── list\n    ├── 1: 1\n    └── 2: 2\n")
}

func TestRootExpandStrings(t *testing.T) {
	out, err := execute(t, `{"s":"{\"x\":1}"}`, "-o", "text", "--expand-strings")
	require.NoError(t, err)
	assert.Equal(t, "▾ {\n  ▾ \"s\": {\n    \"x\": 1\n  }\n}\n", out)
}

func TestRootShowsHelpOnTerminal(t *testing.T) {
	orig := isTerminalFn
	defer func() { isTerminalFn = orig }()
	isTerminalFn = func(any) bool { return true }

	out, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--chunk-size")
}

func TestRootAutoTextOnTerminal(t *testing.T) {
	orig := isTerminalFn
	defer func() { isTerminalFn = orig }()
	isTerminalFn = func(stream any) bool {
		_, isBuffer := stream.(*bytes.Buffer)
		return isBuffer
	}

	out, err := execute(t, `[true]`, "--no-color", "--width", "20")
	require.NoError(t, err)
	assert.Equal(t, "▾ [\n  true\n]\n", out)
}

func TestRootInteractive(t *testing.T) {
	orig := runUIFn
	defer func() { runUIFn = orig }()

	var got ui.Options
	var pending int
	runUIFn = func(_ context.Context, inst *viewer.Instance, opts ui.Options, _ ...tea.ProgramOption) error {
		got = opts
		pending = inst.Pending()
		return nil
	}

	in := writeFile(t, "list.json", `[1,2,3]`)
	_, err := execute(t, "", in, "-i", "--keymap", "emacs", "--chunk-size", "1")
	require.NoError(t, err)
	assert.Equal(t, in, got.Title)
	assert.Equal(t, ui.KeyModeEmacs, got.KeyMode)
	assert.Equal(t, 3, pending, "chunks are left for the viewer to run")

	outPath := filepath.Join(t.TempDir(), "unused.html")
	_, err = execute(t, "", in, "-i", "--output-file", outPath)
	require.NoError(t, err)
	assert.NoFileExists(t, outPath, "the viewer does not write output files")

	runUIFn = func(context.Context, *viewer.Instance, ui.Options, ...tea.ProgramOption) error {
		return errors.New("no terminal")
	}
	_, err = execute(t, "", in, "-i")
	assert.EqualError(t, err, "no terminal")
}

func TestExitCode(t *testing.T) {
	assert.Zero(t, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(usageErrorf("bad flag %q", "x")))
}
