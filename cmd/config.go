package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dai/internal/config"
	"dai/internal/formatting"
)

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetDefaultConfigPathOrPanic()
}

func newConfigCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Prints config.yaml merged over the built-in defaults, after validation.
Use 'dai config init' to write the defaults to disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(resolvedConfigPath())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var data []byte
			switch formatting.OutputFormat(output) {
			case formatting.FormatYAML:
				data, err = cfg.YAML()
			case formatting.FormatJSON:
				data, err = cfg.JSON()
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown output format %q, expected yaml or json", output)
			}
			if err != nil {
				return err
			}

			return formatting.NewFactory().CreateFormatter(formatting.Options{
				Format: formatting.OutputFormat(output),
				Output: cmd.OutOrStdout(),
			}).FormatData(data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(formatting.FormatYAML), "output format: yaml or json")

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := resolvedConfigPath()
			path := config.FilePath(dir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite it", path)
			}
			if err := config.SaveConfig(dir, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}
