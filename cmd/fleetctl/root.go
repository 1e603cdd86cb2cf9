package main

import (
	"context"
	"fmt"

	"github.com/fleet/backend/internal/infrastructure/config"
	"github.com/fleet/backend/internal/infrastructure/logger"
	"github.com/fleet/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is what every subcommand gets after the root pre-run
type env struct {
	cfg *config.Config
	log *zap.Logger
}

type envKey struct{}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Maintenance tool for the fleet backend",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if logLevel == "" {
				logLevel = cfg.Log.Level
			}
			log, err := logger.New(&logger.Config{
				Level:      logLevel,
				Format:     "console",
				Output:     "stderr",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, log: log}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if e := envFrom(cmd); e != nil {
				_ = e.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to log.level")

	root.AddCommand(newMigrateCmd(), newSeedCmd(), newAuditCmd())
	return root
}

func envFrom(cmd *cobra.Command) *env {
	if cmd.Context() == nil {
		return nil
	}
	e, _ := cmd.Context().Value(envKey{}).(*env)
	return e
}

// openDatabase connects with the configured driver. sqlite has no SQL
// migrations, so its schema is created from the models.
func openDatabase(ctx context.Context, e *env) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(e.log, logger.MapGormLogLevel(e.cfg.Log.Level))
	db, err := persistence.NewDatabase(&e.cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
