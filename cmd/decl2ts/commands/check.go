package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/logger"
)

// CheckCmd verifies the artifact matches a fresh rendering
var CheckCmd = &cobra.Command{
	Use:   "check [patterns...]",
	Short: "Check the declaration artifact is up to date",
	Long: `Render the current sources in memory and compare with the artifact.

Nothing is written. A unified diff is printed when they differ.

Exit codes:
  0 - Artifact is up to date
  1 - Artifact is out of date, or the check failed

Examples:
  decl2ts check
  decl2ts check --out web/src`,
	RunE: runCheck,
}

func init() {
	addPipelineFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd, args)
	if err != nil {
		return err
	}

	diff, err := p.Check(cmd.Context())
	if err != nil {
		if errors.Is(err, errors.ErrOutOfDate) {
			pterm.Error.Printfln("%s is out of date", p.Artifact().Path())
			if logger.ShouldOutput(current.verbosity, logger.OutputDiff) {
				fmt.Fprint(cmd.OutOrStdout(), diff)
			}
			return errors.New("declarations are out of date - run 'decl2ts generate' to update")
		}
		return err
	}

	pterm.Success.Printfln("%s is up to date", p.Artifact().Path())
	return nil
}
