package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/decl2ts/cmd/decl2ts/commands"
	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/logger"
)

var rootCmd = &cobra.Command{
	Use:   "decl2ts",
	Short: "Translate exported declarations into TypeScript declaration text",
	Long: `decl2ts - Translate exported declarations into TypeScript declarations.

Declarations are discovered from Go packages (doc comments carrying
@ts-export, files whose package doc carries @ts-module) or from explicit
manifests (.yaml, .json, .toml). Structs become interfaces, functions become
signatures, constants become typed declarations; bodies are never translated.

Available commands:
  generate - Write the declaration artifact
  check    - Verify the artifact is up to date
  config   - Show or validate configuration
  version  - Show version information

Examples:
  decl2ts generate                     # Scan ./... and write ./decl2ts/generated.ts
  decl2ts generate ./api/... decls.yaml
  OUT_DIR=build decl2ts generate       # Build-tool output directory
  decl2ts generate --watch             # Regenerate on change
  decl2ts check                        # Exit 1 when out of date`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version needs neither configuration nor logging
		if cmd.Name() == "version" {
			return nil
		}
		return commands.Prepare(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: decl2ts.toml found upward from --dir)")
	rootCmd.PersistentFlags().StringP("dir", "C", "", "Directory patterns and, without a project file, a relative output.dir are resolved against (default: current directory)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
