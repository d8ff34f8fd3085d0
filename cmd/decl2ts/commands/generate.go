package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/decl2ts/logger"
	"github.com/teranos/decl2ts/pipeline"
)

// GenerateCmd writes the declaration artifact
var GenerateCmd = &cobra.Command{
	Use:   "generate [patterns...]",
	Short: "Write TypeScript declarations for exported declarations",
	Long: `Discover exported declarations and write them to the artifact.

Patterns are Go package patterns (./..., ./api) or manifest files
(.yaml, .yml, .json, .toml). Without patterns, discovery.patterns from
the configuration is used.

In rewrite mode (default) the artifact is replaced once per run, so repeated
runs produce the same file. In append mode every block is appended as it is
produced and re-running duplicates content; truncate first with --truncate.

Examples:
  decl2ts generate
  decl2ts generate ./pkg/... --out web/src
  decl2ts generate decls.toml --policy strict
  decl2ts generate --mode append --truncate
  decl2ts generate --watch`,
	RunE: runGenerate,
}

func init() {
	addPipelineFlags(GenerateCmd)
	GenerateCmd.Flags().Bool("truncate", false, "Empty the artifact before writing (append mode); skipped when the run fails")
	GenerateCmd.Flags().BoolP("watch", "w", false, "Regenerate whenever a source changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd, args)
	if err != nil {
		return err
	}

	if logger.ShouldOutput(current.verbosity, logger.OutputConfig) {
		printSettings(p)
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pterm.Info.Printfln("Watching for changes (Ctrl+C to stop)")
		return p.Watch(ctx, func(report *pipeline.Report, err error) {
			if err != nil {
				pterm.Error.Println(err.Error())
				return
			}
			printReport(report)
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := p.Run(ctx)
	if err != nil {
		if report != nil {
			printIssues(report)
		}
		return err
	}
	printReport(report)
	return nil
}

func printSettings(p *pipeline.Pipeline) {
	opts := p.Options()
	pterm.Info.Printfln("Log level %s, mode %s, policy %s, truncate %t",
		logger.LevelName(current.verbosity), opts.Mode, opts.Policy, opts.Truncate)
	pterm.Info.Printfln("Patterns %s from %s", strings.Join(opts.Patterns, " "), opts.Dir)
}

func printReport(r *pipeline.Report) {
	verbosity := current.verbosity
	pterm.Success.Printfln("Generated %d declarations (%d bytes) → %s", r.Written, r.Bytes, r.Path)
	if logger.ShouldOutput(verbosity, logger.OutputSkipped) && len(r.Skipped) > 0 {
		pterm.Info.Printfln("Skipped: %s", strings.Join(r.Skipped, ", "))
	}
	if logger.ShouldOutput(verbosity, logger.OutputIssues) {
		printIssues(r)
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Info.Printfln("Run %s took %s", r.RunID, r.Duration.Round(time.Millisecond))
	}
}

func printIssues(r *pipeline.Report) {
	for _, issue := range r.Issues {
		pterm.Warning.Println(issue.Error())
	}
}
