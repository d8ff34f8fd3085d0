package logger

// Output controls what categories of CLI output are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are printed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Final status, errors with hints, check diffs
//	1 (-v)      - + Translation issues, skipped declarations
//	2 (-vv)     - + Timing, resolved configuration

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputStatus OutputCategory = iota // Generated / up to date / out of date
	OutputErrors                       // Errors with hints
	OutputDiff                         // check diff against the artifact

	// Level 1 (-v) - Informational
	OutputIssues  // Per-declaration translation issues
	OutputSkipped // Names of declarations that produced no text

	// Level 2 (-vv) - Detailed
	OutputTiming // Run duration
	OutputConfig // Config values resolved for the run
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputStatus: VerbosityUser,
	OutputErrors: VerbosityUser,
	OutputDiff:   VerbosityUser,

	OutputIssues:  VerbosityInfo,
	OutputSkipped: VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityDebug
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputStatus:  "status",
	OutputErrors:  "errors",
	OutputDiff:    "diff",
	OutputIssues:  "issues",
	OutputSkipped: "skipped",
	OutputTiming:  "timing",
	OutputConfig:  "config",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
