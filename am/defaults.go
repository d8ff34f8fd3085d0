package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/decl2ts/discover/goscan"
	"github.com/teranos/decl2ts/sink"
)

const (
	// ProjectFile is the project configuration file name
	ProjectFile = "decl2ts.toml"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "DECL2TS"

	// OutDirEnv is the build-tool output directory convention
	OutDirEnv = "OUT_DIR"

	DefaultOutputDir  = "."
	DefaultDebounceMs = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.subdir", sink.DefaultSubdir)
	v.SetDefault("output.artifact", sink.DefaultArtifact)
	v.SetDefault("output.mode", string(sink.ModeRewrite))

	// Translation
	v.SetDefault("policy", "lenient")
	v.SetDefault("requires", "")

	// Discovery
	v.SetDefault("discovery.patterns", []string{"./..."})
	v.SetDefault("discovery.marker", goscan.DefaultMarker)
	v.SetDefault("discovery.module_marker", goscan.DefaultModuleMarker)
	v.SetDefault("discovery.field_case", string(goscan.CasePreserve))

	// Logging
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	// Watch
	v.SetDefault("watch.debounce_ms", DefaultDebounceMs)
}

// BindEnvVars binds keys whose environment names do not follow the prefix rule
func BindEnvVars(v *viper.Viper) {
	// First name wins: DECL2TS_OUTPUT_DIR, then OUT_DIR
	_ = v.BindEnv("output.dir", EnvPrefix+"_OUTPUT_DIR", OutDirEnv)
}
