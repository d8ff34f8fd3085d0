package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/decl2ts/am"
	"github.com/teranos/decl2ts/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate decl2ts configuration",
	Long: `Display and validate decl2ts configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (DECL2TS_* prefix, OUT_DIR for output.dir)
3. Project config (decl2ts.toml, searched upward from --dir)
4. Default values

Examples:
  decl2ts config show                 # Show current configuration
  decl2ts config show --format json   # Show configuration in JSON format
  decl2ts config get output.dir       # Get a specific value
  decl2ts config where                # Show where each setting comes from
  decl2ts config validate             # Validate current configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.dir, discovery.marker)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	return writeConfig(cmd.OutOrStdout(), current.cfg, configFormat)
}

func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# decl2ts configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# decl2ts configuration\n%s", data)

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", format),
			"supported formats: toml, json, yaml",
		)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	v, err := am.GetViper(current.dir)
	if err != nil {
		return err
	}
	if !v.IsSet(args[0]) {
		return errors.Newf("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(args[0]))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if err := current.cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.Introspect(current.dir)
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]      Built-in defaults")
	fmt.Fprintf(w, "  2. [PROJECT]      %s (searches up directories)\n", am.ProjectFile)
	fmt.Fprintf(w, "  3. [ENVIRONMENT]  %s_* variables, %s\n", am.EnvPrefix, am.OutDirEnv)
	fmt.Fprintln(w)

	if intro.ConfigFile != "" {
		fmt.Fprintf(w, "Project config: %s\n\n", intro.ConfigFile)
	} else {
		fmt.Fprintf(w, "Project config: none found\n\n")
	}

	rows := [][]string{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(rows).Render()
}
