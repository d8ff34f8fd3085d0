package am

import (
	"path/filepath"
	"strings"

	"github.com/teranos/decl2ts/discover/goscan"
	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/sink"
	"github.com/teranos/decl2ts/typegen"
	"github.com/teranos/decl2ts/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.WithHint(
			errors.New("output.dir cannot be empty"),
			"set output.dir, DECL2TS_OUTPUT_DIR or OUT_DIR")
	}

	// Subdir and artifact are plain names under the output directory
	if err := validateName("output.subdir", c.Output.Subdir); err != nil {
		return err
	}
	if err := validateName("output.artifact", c.Output.Artifact); err != nil {
		return err
	}

	if _, err := sink.ParseMode(c.Output.Mode); err != nil {
		return errors.Wrap(err, "output.mode")
	}
	if _, err := typegen.ParsePolicy(c.Policy); err != nil {
		return errors.Wrap(err, "policy")
	}
	if _, err := goscan.ParseFieldCase(c.Discovery.FieldCase); err != nil {
		return errors.Wrap(err, "discovery.field_case")
	}

	if strings.TrimSpace(c.Discovery.Marker) == "" {
		return errors.New("discovery.marker cannot be empty")
	}
	if strings.TrimSpace(c.Discovery.ModuleMarker) == "" {
		return errors.New("discovery.module_marker cannot be empty")
	}
	if c.Discovery.Marker == c.Discovery.ModuleMarker {
		return errors.Newf("discovery.marker and discovery.module_marker must differ, both are %q", c.Discovery.Marker)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	// Watch debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMs < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}

	if err := version.Get().Satisfies(c.Requires); err != nil {
		return errors.Wrap(err, "requires")
	}
	return nil
}

func validateName(key, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Newf("%s cannot be empty", key)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return errors.Newf("%s must be a plain name, got %q", key, name)
	}
	return nil
}
