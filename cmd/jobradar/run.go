package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobradar/internal/ai"
	"jobradar/internal/config"
	"jobradar/internal/logger"
	"jobradar/internal/notify"
	"jobradar/internal/poll"
	"jobradar/internal/rank"
	"jobradar/internal/runlock"
	"jobradar/internal/scheduler"
	"jobradar/internal/secrets"
	"jobradar/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one poll cycle (or keep polling with --every)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dryRun := viper.GetBool("dry-run")
		every := viper.GetDuration("every")

		if every <= 0 {
			return runOnce(ctx, dryRun)
		}

		scheduler.Every(ctx, every, "poll", appLogger, func(ctx context.Context) error {
			return runOnce(ctx, dryRun)
		})
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "print the digest to stdout instead of sending it")
	runCmd.Flags().Duration("every", 0, "repeat the run on this interval (e.g. 1h); 0 runs once")

	_ = viper.BindPFlag("dry-run", runCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("every", runCmd.Flags().Lookup("every"))

	rootCmd.AddCommand(runCmd)
}

// runOnce loads the config fresh, so edits apply on the next tick.
func runOnce(ctx context.Context, dryRun bool) error {
	cfg, err := loadConfig(dryRun)
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg.Run.LockFile)
	if errors.Is(err, runlock.ErrHeld) {
		appLogger.Warn("previous run still in progress, skipping", zap.String("lock", cfg.Run.LockFile))
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	runID := uuid.NewString()
	log := logger.WithRun(appLogger, runID)

	reg, closeReg := openRegistry(ctx, cfg, log)
	defer closeReg()

	notifier, err := buildNotifier(ctx, cfg, log, dryRun)
	if err != nil {
		return fmt.Errorf("%w: %w", poll.ErrDelivery, err)
	}

	scorer := rank.NewScorer(buildGenerator(ctx, cfg, log), cfg.Scoring, cfg.Profile, log)

	rep, err := poll.RunOnce(ctx, poll.Deps{
		Config:   cfg,
		Registry: reg,
		Adapters: poll.Adapters(cfg.Sources, log),
		Scorer:   scorer,
		Notifier: notifier,
		Logger:   appLogger,
		Now:      time.Now,
		RunID:    runID,
	})
	if err != nil {
		return err
	}

	log.Info("run finished",
		zap.Int("fetched", rep.Fetched),
		zap.Int("kept", rep.Kept),
		zap.Int("scored", rep.Scored),
		zap.String("variant", string(rep.Digest.Variant)),
		zap.Strings("failed_sources", rep.FailedSources),
	)
	return nil
}

// openRegistry never fails the run: a registry that cannot be opened is
// treated as empty, and the digest reports zero matches.
func openRegistry(ctx context.Context, cfg config.Config, log *zap.Logger) (poll.Registry, func()) {
	if cfg.Sources.Registry != config.RegistrySQLite {
		return config.StaticRegistry{Sources: cfg.Sources}, func() {}
	}

	db, err := store.Open(ctx, cfg.Sources.RegistryDB)
	if err != nil {
		log.Warn("registry unavailable", zap.String("path", cfg.Sources.RegistryDB), zap.Error(err))
		return nil, func() {}
	}
	return store.NewRegistry(db), func() { _ = db.Close() }
}

// buildGenerator never fails the run either; without a usable model every
// record gets the fallback score.
func buildGenerator(ctx context.Context, cfg config.Config, log *zap.Logger) rank.Generator {
	key, err := secrets.Load(secrets.FromConfig("scoring.api_key", cfg.Scoring.APIKey))
	if err != nil {
		log.Warn("scoring disabled", zap.Error(err))
		return unavailable{err: err}
	}

	gen, err := ai.New(ctx, cfg.Scoring.Provider, cfg.Scoring.Model, key)
	if err != nil {
		log.Warn("scoring disabled", zap.String("provider", cfg.Scoring.Provider), zap.Error(err))
		return unavailable{err: err}
	}
	log.Debug("scoring model", zap.String("provider", cfg.Scoring.Provider), zap.String("model", gen.Model()))
	return gen
}

func buildNotifier(ctx context.Context, cfg config.Config, log *zap.Logger, dryRun bool) (notify.Notifier, error) {
	if dryRun {
		return notify.NewLog(os.Stdout, log), nil
	}
	return notify.New(ctx, cfg.Notify, log)
}

type unavailable struct{ err error }

func (u unavailable) GenerateContent(context.Context, string) (string, error) {
	return "", u.err
}
