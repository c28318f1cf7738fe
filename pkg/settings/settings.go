// Package settings provides build metadata and the per-run settings the
// jsonview CLI stores in its context.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jsonview"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Input describes where the rendered document comes from.
type Input struct {
	// Path is the input file, empty for stdin.
	Path string
	// FromStdin is set when data is piped in.
	FromStdin bool
}

// Name returns a display name for the input.
func (i Input) Name() string {
	if i.Path != "" {
		return i.Path
	}
	return "stdin"
}

// Run holds the settings of a single CLI execution.
type Run struct {
	MinLogLevel int8
	Input       Input
	NoColor     bool
	Interactive bool
	ExitOnError bool
}

// NewCliParams returns the settings of a plain CLI run.
func NewCliParams() *Run {
	return &Run{ExitOnError: true}
}
