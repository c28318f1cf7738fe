package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonview/internal/cel"
	"github.com/oakwood-commons/jsonview/internal/config"
	"github.com/oakwood-commons/jsonview/pkg/settings"
)

// versionString builds the text printed by the version command and
// --version.
func versionString(cfg config.File) string {
	about := cfg.App.About
	name := about.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	version := about.Version
	if version == "" {
		version = settings.VersionInformation.BuildVersion
	}
	goVersion := about.GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", name, version,
		settings.VersionInformation.Commit, settings.VersionInformation.BuildTime, goVersion)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the " + settings.CliBinaryName + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Default()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), versionString(cfg))
			return nil
		},
	}
}

func newConfigCmd(configFile *string) *cobra.Command {
	var (
		output      string
		showDefault bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration",
		Long: "Show the configuration in effect: embedded defaults, then the user file\n" +
			"($XDG_CONFIG_HOME/" + settings.CliBinaryName + "/config.yaml or --config-file).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showDefault {
				_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
				return err
			}
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg, output)
			if err != nil {
				return &usageError{err: err}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json")
	cmd.Flags().BoolVar(&showDefault, "default", false, "print the embedded default config, comments included")
	return cmd
}

func newThemesCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			def := cfg.Theme.Default
			if def == "" {
				def = "dark"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Available themes (default: %s):\n", def)
			for _, name := range cfg.ThemeSet().Names() {
				fmt.Fprintf(w, " - %s\n", name)
			}
			return nil
		},
	}
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the functions available in -e expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, err := cel.NewEvaluator()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, fn := range ev.Functions() {
				fmt.Fprintln(w, fn)
			}
			return nil
		},
	}
}
