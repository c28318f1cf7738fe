package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/jsonview/internal/config"
	"github.com/oakwood-commons/jsonview/internal/formatter"
	"github.com/oakwood-commons/jsonview/internal/theme"
	"github.com/oakwood-commons/jsonview/internal/ui"
	"github.com/oakwood-commons/jsonview/pkg/core"
	"github.com/oakwood-commons/jsonview/pkg/loader"
	"github.com/oakwood-commons/jsonview/pkg/logger"
	"github.com/oakwood-commons/jsonview/pkg/settings"
	"github.com/oakwood-commons/jsonview/pkg/value"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

type outputMode string

const (
	outputAuto     outputMode = "auto"
	outputHTML     outputMode = "html"
	outputFragment outputMode = "fragment"
	outputText     outputMode = "text"
	outputTree     outputMode = "tree"
)

func parseOutputMode(s string) (outputMode, error) {
	switch m := outputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", outputAuto:
		return outputAuto, nil
	case outputHTML, outputFragment, outputText, outputTree:
		return m, nil
	}
	return "", fmt.Errorf("invalid output %q (want auto, html, fragment, text or tree)", s)
}

// isTerminalFn reports whether a stream is a terminal. Tests swap it.
var isTerminalFn = func(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && formatter.IsTerminal(f)
}

// runUIFn starts the interactive viewer. Tests swap it.
var runUIFn = ui.Run

func runRoot(cmd *cobra.Command, o *rootOptions, args []string) error {
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		lgr.V(1).Info("flag set", "flag", f.Name, "value", f.Value.String())
	})

	if err := o.limits.Validate(); err != nil {
		return &usageError{err: err}
	}
	if err := formatter.ValidateArrayStyle(o.arrayStyle); err != nil {
		return &usageError{err: err}
	}
	keyMode, err := ui.ParseKeyMode(o.keyMode)
	if err != nil {
		return &usageError{err: err}
	}
	format, err := loader.ParseFormat(o.inputFormat)
	if err != nil {
		return &usageError{err: err}
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	modeName := cfg.Output.Format
	if cmd.Flags().Changed("output") {
		modeName = o.output
	}
	mode, err := parseOutputMode(modeName)
	if err != nil {
		return &usageError{err: err}
	}
	th, err := cfg.ResolveTheme(o.themeName)
	if err != nil {
		return &usageError{err: err}
	}

	stdin := cmd.InOrStdin()
	if len(args) == 0 && isTerminalFn(stdin) {
		return cmd.Help()
	}
	run.Input = settings.Input{FromStdin: len(args) == 0}
	if len(args) == 1 {
		run.Input.Path = args[0]
	}
	lgr = logger.WithValues(lgr, logger.InputKey, run.Input.Name())

	l := loader.New(
		loader.WithFormat(format),
		loader.WithLogger(*lgr),
	)
	engine, err := core.New(core.WithLoader(l), core.WithLogger(*lgr))
	if err != nil {
		return err
	}
	var v value.Value
	if run.Input.Path != "" {
		v, err = engine.LoadFile(run.Input.Path)
	} else {
		v, err = engine.Load(stdin)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", run.Input.Name(), err)
	}
	if o.expandStrings {
		v = l.ExpandStrings(v)
	}
	if v, err = engine.Select(strings.TrimSpace(o.expression), v); err != nil {
		return err
	}
	v = o.limits.Apply(v)

	if o.interactive {
		return runInteractive(ctx, cmd, o, cfg, th, keyMode, v, *lgr)
	}

	out, closeOut, err := openOutput(cmd, o.outputFile)
	if err != nil {
		return err
	}
	defer closeOut()
	if mode == outputAuto {
		mode = outputHTML
		if o.outputFile == "" && isTerminalFn(out) {
			mode = outputText
		}
		lgr.V(1).Info("resolved output", "output", string(mode))
	}
	if mode == outputTree {
		tree := formatter.FormatTree(v, formatter.TreeOptions{
			NoValues:     o.treeNoValues,
			MaxDepth:     o.treeDepth,
			ExpandArrays: o.treeExpandArrays,
			MaxString:    intSetting(cmd, "max-string", o.maxString, cfg.Output.MaxString),
			ArrayStyle:   o.arrayStyle,
		})
		_, err := io.WriteString(out, tree)
		return err
	}

	inst, err := engine.Render(ctx, v, viewerOptions(cmd, o, cfg))
	if err != nil {
		return err
	}
	defer inst.Close()
	switch mode {
	case outputFragment:
		return viewer.WriteFragment(out, inst)
	case outputText:
		width := intSetting(cmd, "width", o.width, cfg.Output.Width)
		if width == 0 && o.outputFile == "" && isTerminalFn(out) {
			width = formatter.TerminalWidth(0)
		}
		plain := o.noColor || os.Getenv("NO_COLOR") != "" || !isTerminalFn(out)
		_, err := io.WriteString(out, formatter.Text(inst.Container(), formatter.TextOptions{
			Styles:    th.Styles(plain),
			Width:     width,
			MaxString: intSetting(cmd, "max-string", o.maxString, cfg.Output.MaxString),
		}, plain))
		return err
	}
	return viewer.WritePage(out, inst, viewer.PageOptions{
		Title:   stringSetting(cmd, "title", o.title, cfg.Output.Title),
		Caption: stringSetting(cmd, "caption", o.caption, cfg.Output.Caption),
		CSS:     th.CSS(),
		Static:  o.static,
	})
}

func runInteractive(ctx context.Context, cmd *cobra.Command, o *rootOptions, cfg config.File, th theme.Theme, keyMode ui.KeyMode, v value.Value, lgr logr.Logger) error {
	run := settings.FromContextOrDefault(ctx)
	inst := viewer.RenderViewer(ctx, nil, v, viewerOptions(cmd, o, cfg), viewer.WithLogger(lgr))
	defer inst.Close()

	title := stringSetting(cmd, "title", o.title, cfg.Output.Title)
	if !cmd.Flags().Changed("title") && run.Input.Path != "" {
		title = run.Input.Path
	}
	progOpts, cleanup := ui.TerminalOptions(ctx, run.Input.FromStdin)
	defer cleanup()
	return runUIFn(ctx, inst, ui.Options{
		Title:     title,
		Styles:    th.Styles(o.noColor),
		KeyMode:   keyMode,
		MaxString: intSetting(cmd, "max-string", o.maxString, cfg.Output.MaxString),
		Logger:    lgr,
	}, progOpts...)
}

// viewerOptions layers the viewer flags the user set over the config
// file.
func viewerOptions(cmd *cobra.Command, o *rootOptions, cfg config.File) viewer.Options {
	flags := viewer.Options{}
	changed := cmd.Flags().Changed
	if changed("collapsed") {
		flags.Collapsed = viewer.Bool(o.collapsed)
	}
	if changed("root-collapsible") {
		flags.RootCollapsible = viewer.Bool(o.rootCollapsible)
	}
	if changed("quote-keys") {
		flags.QuoteKeys = viewer.Bool(o.quoteKeys)
	}
	if changed("linkify-urls") {
		flags.LinkifyURLs = viewer.Bool(o.linkifyURLs)
	}
	if changed("special-big-numbers") {
		flags.SpecialBigNumbers = viewer.Bool(o.specialBigNumbers)
	}
	if changed("chunk-size") {
		flags.ChunkSize = viewer.Int(o.chunkSize)
	}
	if changed("chunk-delay") {
		flags.ChunkDelayMs = viewer.Int(o.chunkDelay)
	}
	return cfg.Viewer.Merge(flags)
}

func intSetting(cmd *cobra.Command, name string, flagValue int, cfgValue *int) int {
	if cmd.Flags().Changed(name) || cfgValue == nil {
		return flagValue
	}
	return *cfgValue
}

func stringSetting(cmd *cobra.Command, name, flagValue, cfgValue string) string {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return cfgValue
}

// openOutput returns the --output-file writer, or the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
