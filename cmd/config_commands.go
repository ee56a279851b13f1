package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foldeval/refold/pkg/config"
)

var configInitForce bool

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the run configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(rootConfigPath); err == nil && !configInitForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", rootConfigPath)
			}
			cfg := config.Default()
			if err := cfg.Save(rootConfigPath); err != nil {
				return err
			}
			fmt.Printf("%s Wrote %s\n", color.GreenString("✓"), rootConfigPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefaultConfig(rootConfigPath)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and its paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootConfigPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ValidatePaths(); err != nil {
				return err
			}
			fmt.Printf("%s %s is valid\n", color.GreenString("✓"), rootConfigPath)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}
