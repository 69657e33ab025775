package main

import (
	"fmt"

	"github.com/tomasz-mizak/chatguard/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage service settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrEmpty(config.Path())
		if err != nil {
			return err
		}
		for _, key := range []string{"API_PORT", "LOG_LEVEL", "LOG_PRETTY"} {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, cfg.GetOrDefault(key))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.Validate(key, value); err != nil {
			return err
		}

		cfg, err := config.LoadOrEmpty(config.Path())
		if err != nil {
			return err
		}

		cfg.Set(key, value)
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s=%s\n", key, value)
		fmt.Fprintf(cmd.OutOrStdout(), "Restart required for this change: sudo systemctl restart %s\n", apiServiceName)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
