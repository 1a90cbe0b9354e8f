package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobradar/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file if none exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath()
		created, err := config.EnsureUserConfig(path)
		if err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
		if created {
			appLogger.Info("created default config", zap.String("path", path))
		} else {
			appLogger.Info("config already exists", zap.String("path", path))
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the config without running",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config %s ok (registry=%s notify=%s provider=%s)\n",
			configPath(), cfg.Sources.Registry, cfg.Notify.Kind, cfg.Scoring.Provider)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
}
