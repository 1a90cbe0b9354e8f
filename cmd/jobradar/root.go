package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobradar/internal/config"
	"jobradar/internal/logger"
)

const (
	app = "jobradar"
)

var (
	appLogger = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jobradar polls ATS job boards, scores new postings with an LLM and emails a digest",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loadDotEnv()

			l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
			if err != nil {
				return fmt.Errorf("creating a logger: %w", err)
			}
			appLogger = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = appLogger.Sync()
		},
	}
)

func init() {
	viper.SetEnvPrefix("JOBRADAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", "", "config file (default is jobradar.yaml in the data dir)")
	rootCmd.PersistentFlags().String("data-dir", ".", "directory for config, registry and lock files")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	for _, name := range []string{"config", "data-dir", "debug", "json"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func dataDir() string {
	if d := strings.TrimSpace(viper.GetString("data-dir")); d != "" {
		return d
	}
	return "."
}

func configPath() string {
	if p := strings.TrimSpace(viper.GetString("config")); p != "" {
		return p
	}
	return filepath.Join(dataDir(), app+".yaml")
}

// loadDotEnv reads .env from the data dir and the working directory.
// Variables already set in the environment win.
func loadDotEnv() {
	seen := map[string]bool{}
	for _, p := range []string{filepath.Join(dataDir(), ".env"), ".env"} {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		_ = godotenv.Load(abs)
	}
}

// loadConfig reads, overlays and validates the config. Relative paths in
// the file resolve against the data dir.
func loadConfig(dryRun bool) (config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("config %s not found (run `%s init`)", path, app)
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.Sources.CompaniesFile = resolve(cfg.Sources.CompaniesFile)
	cfg.Sources.RegistryDB = resolve(cfg.Sources.RegistryDB)
	cfg.Run.LockFile = resolve(cfg.Run.LockFile)
	cfg.Notify.Gmail.CredentialsFile = resolve(cfg.Notify.Gmail.CredentialsFile)
	cfg.Notify.Gmail.TokenFile = resolve(cfg.Notify.Gmail.TokenFile)
	if cfg.Run.LockFile == "" {
		cfg.Run.LockFile = filepath.Join(dataDir(), app+".lock")
	}

	if err := config.OverlayCompanies(&cfg, cfg.Sources.CompaniesFile); err != nil {
		// A broken registry means zero identifiers, not an aborted run: the
		// zero-matches digest still goes out.
		appLogger.Warn("companies file unreadable, registry is empty",
			zap.String("path", cfg.Sources.CompaniesFile),
			zap.Error(err),
		)
		clearCompanies(&cfg.Sources)
	}
	if dryRun {
		cfg.Notify.Kind = "log"
	}

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		appLogger.Warn("config warning", zap.String("warning", w))
	}
	return cfg, v.Err()
}

func clearCompanies(src *config.Sources) {
	src.Greenhouse.Companies = nil
	src.Lever.Companies = nil
	src.SmartRecruiters.Companies = nil
	src.Careers.Companies = nil
}

func resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir(), p)
}
