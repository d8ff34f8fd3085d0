// Package am loads decl2ts configuration.
//
// Sources, lowest precedence first: built-in defaults, the project file
// decl2ts.toml (found by walking up from the working directory), then
// environment variables (DECL2TS_OUTPUT_DIR, DECL2TS_POLICY, ...). The
// build-tool convention OUT_DIR is accepted as a fallback for output.dir.
//
// Example decl2ts.toml:
//
//	policy = "strict"
//	requires = ">= 0.1"
//
//	[output]
//	dir = "web/src"
//	mode = "rewrite"
//
//	[discovery]
//	patterns = ["./api/..."]
//	field_case = "camel"
package am

import (
	"path/filepath"

	"github.com/teranos/decl2ts/discover/goscan"
	"github.com/teranos/decl2ts/sink"
	"github.com/teranos/decl2ts/typegen"
)

// Config represents the decl2ts configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output" json:"output" toml:"output" yaml:"output"`
	Discovery DiscoveryConfig `mapstructure:"discovery" json:"discovery" toml:"discovery" yaml:"discovery"`
	Log       LogConfig       `mapstructure:"log" json:"log" toml:"log" yaml:"log"`
	Watch     WatchConfig     `mapstructure:"watch" json:"watch" toml:"watch" yaml:"watch"`
	Policy    string          `mapstructure:"policy" json:"policy" toml:"policy" yaml:"policy"`         // lenient | strict
	Requires  string          `mapstructure:"requires" json:"requires" toml:"requires" yaml:"requires"` // semver constraint on the running binary

	// ProjectRoot is the directory of the project file, "" if none was found
	ProjectRoot string `mapstructure:"-" json:"-" toml:"-" yaml:"-"`
}

// OutputConfig locates the artifact
type OutputConfig struct {
	Dir      string `mapstructure:"dir" json:"dir" toml:"dir" yaml:"dir"`
	Subdir   string `mapstructure:"subdir" json:"subdir" toml:"subdir" yaml:"subdir"`
	Artifact string `mapstructure:"artifact" json:"artifact" toml:"artifact" yaml:"artifact"`
	Mode     string `mapstructure:"mode" json:"mode" toml:"mode" yaml:"mode"` // append | rewrite
}

// DiscoveryConfig configures declaration discovery
type DiscoveryConfig struct {
	Patterns     []string `mapstructure:"patterns" json:"patterns" toml:"patterns" yaml:"patterns"` // package patterns or manifest files
	Marker       string   `mapstructure:"marker" json:"marker" toml:"marker" yaml:"marker"`
	ModuleMarker string   `mapstructure:"module_marker" json:"module_marker" toml:"module_marker" yaml:"module_marker"`
	FieldCase    string   `mapstructure:"field_case" json:"field_case" toml:"field_case" yaml:"field_case"` // preserve | camel | snake
}

// LogConfig configures the logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" json:"json" toml:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" json:"verbosity" toml:"verbosity" yaml:"verbosity"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms" json:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms"`
}

// OutputDir returns the output directory. A relative directory is taken
// relative to the project root, or to base when no project file was found.
func (c *Config) OutputDir(base string) string {
	dir := c.Output.Dir
	if dir == "" {
		dir = DefaultOutputDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	root := c.ProjectRoot
	if root == "" {
		root = base
	}
	if root == "" {
		return dir
	}
	return filepath.Join(root, dir)
}

// Sink returns the artifact location, resolving a relative directory as OutputDir does
func (c *Config) Sink(base string) sink.Config {
	return sink.Config{
		Dir:      c.OutputDir(base),
		Subdir:   c.Output.Subdir,
		Artifact: c.Output.Artifact,
	}
}

// Mode returns the parsed output mode. Call Validate first; an invalid value yields rewrite.
func (c *Config) Mode() sink.Mode {
	m, _ := sink.ParseMode(c.Output.Mode)
	return m
}

// TranslationPolicy returns the parsed policy. Call Validate first; an invalid value yields lenient.
func (c *Config) TranslationPolicy() typegen.Policy {
	p, _ := typegen.ParsePolicy(c.Policy)
	return p
}

// ScanOptions returns the goscan options rooted at dir
func (c *Config) ScanOptions(dir string) goscan.Options {
	fc, _ := goscan.ParseFieldCase(c.Discovery.FieldCase)
	return goscan.Options{
		Dir:          dir,
		Marker:       c.Discovery.Marker,
		ModuleMarker: c.Discovery.ModuleMarker,
		FieldCase:    fc,
	}
}
