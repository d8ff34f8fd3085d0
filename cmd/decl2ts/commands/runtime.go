package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/decl2ts/am"
	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/logger"
	"github.com/teranos/decl2ts/pipeline"
)

// runtime is the configuration resolved for the running command
type runtime struct {
	cfg       *am.Config
	dir       string
	verbosity int
}

var current *runtime

// Prepare resolves the working directory and configuration, then
// initializes the logger. Flags win over configuration.
func Prepare(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "invalid directory %s", dir)
	}

	var cfg *am.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.LoadFrom(dir)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = cfg.Log.Verbosity
	}
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	if err := logger.Initialize(jsonLogs || cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	current = &runtime{cfg: cfg, dir: dir, verbosity: verbosity}
	return nil
}

// addPipelineFlags registers the overrides shared by generate and check
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Output directory (overrides output.dir, DECL2TS_OUTPUT_DIR and OUT_DIR); relative output.dir resolves against the project file, else --dir")
	cmd.Flags().String("mode", "", "Output mode: rewrite or append")
	cmd.Flags().String("policy", "", "Translation policy: lenient or strict")
	cmd.Flags().String("field-case", "", "Untagged Go field names: preserve, camel or snake")
}

// buildPipeline applies flag overrides and positional patterns to the configuration
func buildPipeline(cmd *cobra.Command, args []string) (*pipeline.Pipeline, error) {
	if current == nil {
		return nil, errors.New("configuration not loaded")
	}
	cfg := *current.cfg

	if v, _ := cmd.Flags().GetString("out"); v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid output directory %s", v)
		}
		cfg.Output.Dir = abs
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Output.Mode = v
	}
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		cfg.Policy = v
	}
	if v, _ := cmd.Flags().GetString("field-case"); v != "" {
		cfg.Discovery.FieldCase = v
	}
	if len(args) > 0 {
		cfg.Discovery.Patterns = args
	}

	var opts []pipeline.Option
	if cmd.Flags().Lookup("truncate") != nil {
		truncate, _ := cmd.Flags().GetBool("truncate")
		opts = append(opts, pipeline.WithTruncate(truncate))
	}
	return pipeline.FromConfig(&cfg, current.dir, opts...)
}
