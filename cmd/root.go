// Package cmd is the jsonview command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonview/internal/config"
	"github.com/oakwood-commons/jsonview/internal/formatter"
	"github.com/oakwood-commons/jsonview/internal/limiter"
	"github.com/oakwood-commons/jsonview/pkg/loader"
	"github.com/oakwood-commons/jsonview/pkg/logger"
	"github.com/oakwood-commons/jsonview/pkg/settings"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// usageError marks invalid flags or arguments. It exits with status 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// rootOptions holds every flag of the root command.
type rootOptions struct {
	output        string
	outputFile    string
	expression    string
	inputFormat   string
	themeName     string
	title         string
	caption       string
	configFile    string
	keyMode       string
	noColor       bool
	debug         bool
	interactive   bool
	expandStrings bool
	static        bool
	width         int
	maxString     int
	limits        limiter.Config

	collapsed         bool
	rootCollapsible   bool
	quoteKeys         bool
	linkifyURLs       bool
	specialBigNumbers bool
	chunkSize         int
	chunkDelay        int

	treeNoValues     bool
	treeDepth        int
	treeExpandArrays bool
	arrayStyle       string
}

// NewRootCmd builds the jsonview command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	about, err := config.Load("")
	if err != nil {
		// A broken user file is reported when a command runs.
		about, _ = config.Default()
	}

	cmd := &cobra.Command{
		Use:           settings.CliBinaryName + " [file]",
		Short:         shortHelp(about),
		Long:          longHelp(about),
		Example:       examples(),
		Args:          cobra.MaximumNArgs(1),
		Version:       versionString(about),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, o, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", string(outputAuto), "output: auto|html|fragment|text|tree (auto: text on a terminal, html otherwise)")
	f.StringVar(&o.outputFile, "output-file", "", "write output to this file instead of stdout")
	f.StringVarP(&o.expression, "expression", "e", "", "CEL expression using '_' as root, e.g. '_.items[0]' or '_.items.filter(x, x.enabled)'")
	f.StringVar(&o.inputFormat, "format", string(loader.FormatAuto), "input format: auto|json|ndjson|yaml|toml|jwt")
	f.StringVar(&o.themeName, "theme", "", "theme name (default from config; see '"+settings.CliBinaryName+" themes')")
	f.StringVar(&o.title, "title", "", "page title (default from config)")
	f.StringVar(&o.caption, "caption", "", "markdown caption shown above the tree in HTML output")
	f.StringVar(&o.keyMode, "keymap", "", "keybinding mode for -i: vim (default), emacs or function")
	f.BoolVar(&o.noColor, "no-color", false, "disable color output")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "browse the tree in the terminal")
	f.BoolVar(&o.expandStrings, "expand-strings", false, "render strings holding JSON, YAML or JWT documents as nested trees")
	f.BoolVar(&o.static, "static", false, "omit the toggle script from HTML pages")
	f.IntVar(&o.width, "width", 0, "text output width in columns (0 = terminal width)")
	f.IntVar(&o.maxString, "max-string", 0, "truncate strings longer than this in text output (0 = unlimited)")
	f.IntVar(&o.limits.Limit, "limit", 0, "show only the first N top-level entries")
	f.IntVar(&o.limits.Offset, "offset", 0, "skip the first N top-level entries")
	f.IntVar(&o.limits.Tail, "tail", 0, "show only the last N top-level entries (mutually exclusive with --limit; ignores --offset)")

	f.BoolVar(&o.collapsed, "collapsed", false, "start with every container collapsed")
	f.BoolVar(&o.rootCollapsible, "root-collapsible", true, "give the top-level container a toggle")
	f.BoolVar(&o.quoteKeys, "quote-keys", true, "show mapping keys as JSON strings")
	f.BoolVar(&o.linkifyURLs, "linkify-urls", true, "render URL strings as links")
	f.BoolVar(&o.specialBigNumbers, "special-big-numbers", false, "show arbitrary-precision numbers with their exact text")
	f.IntVar(&o.chunkSize, "chunk-size", 999, "entries rendered per scheduling turn")
	f.IntVar(&o.chunkDelay, "chunk-delay", 33, "milliseconds between chunks")

	f.BoolVar(&o.treeNoValues, "tree-no-values", false, "show structure only (hide values) in tree output")
	f.IntVar(&o.treeDepth, "tree-depth", 0, "limit tree depth (0 = unlimited)")
	f.BoolVar(&o.treeExpandArrays, "tree-expand-arrays", false, "list every array element in tree output")
	f.StringVar(&o.arrayStyle, "array-style", "index", "array labels in tree output: "+strings.Join(formatter.ValidArrayStyles, ", "))

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file")
	pf.BoolVar(&o.debug, "debug", false, "write debug logs to stderr")
	cmd.Flags().SortFlags = false

	cmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(&o.configFile),
		newThemesCmd(&o.configFile),
		newFunctionsCmd(),
	)
	return cmd
}

// setupContext installs the logger and run settings on the command
// context.
func setupContext(cmd *cobra.Command, o *rootOptions) error {
	var level int8
	if o.debug {
		level = -1
	}
	lgr := logger.Get(level)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.NoColor = o.noColor
	run.Interactive = o.interactive

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	cmd.SetContext(settings.IntoContext(ctx, run))
	return nil
}

func shortHelp(cfg config.File) string {
	name := cfg.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	return name + " - render JSON as a collapsible HTML tree"
}

func longHelp(cfg config.File) string {
	about := cfg.App.About
	var b strings.Builder
	if about.Description != "" {
		b.WriteString(about.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("Input comes from the file argument or stdin. HTML pages are self-contained:\n")
	b.WriteString("open them in a browser and click the arrows to fold containers.\n")
	if len(about.Details) > 0 {
		b.WriteString("\n")
		for _, d := range about.Details {
			b.WriteString(d)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func examples() string {
	name := settings.CliBinaryName
	return strings.Join([]string{
		"  " + name + " data.json > data.html",
		"  curl -s https://api.example.com/items | " + name + " -o text",
		"  " + name + " config.yaml -e '_.services.filter(s, s.enabled)' --collapsed",
		"  " + name + " events.ndjson --tail 10 -i",
	}, "\n")
}
