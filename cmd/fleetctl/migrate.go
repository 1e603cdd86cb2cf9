package main

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fleet/backend/internal/infrastructure/config"
	"github.com/fleet/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the SQL schema migrations (postgres only)",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "migrations directory; defaults to database.migrations_path")

	dir := func(e *env) (string, error) {
		p := path
		if p == "" {
			p = e.cfg.Database.MigrationsPath
		}
		return filepath.Abs(p)
	}

	// withMigrator opens the database, runs fn and closes everything
	withMigrator := func(cmd *cobra.Command, fn func(*migration.Migrator) error) error {
		e := envFrom(cmd)
		if e.cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrate needs database.driver=postgres, got %q", e.cfg.Database.Driver)
		}
		migrationsPath, err := dir(e)
		if err != nil {
			return err
		}
		// the migrator owns this connection and closes it
		sqlDB, err := sql.Open("postgres", e.cfg.Database.DSN())
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(cmd.Context()); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("connect to database: %w", err)
		}
		m, err := migration.New(sqlDB, migrationsPath, e.log)
		if err != nil {
			_ = sqlDB.Close()
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(m)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error { return m.Up() })
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error { return m.Down() })
		},
	}

	steps := &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations; a negative n rolls back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return withMigrator(cmd, func(m *migration.Migrator) error { return m.Steps(n) })
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied without running it, to repair a dirty schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withMigrator(cmd, func(m *migration.Migrator) error { return m.Force(v) })
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Write an empty up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			migrationsPath, err := dir(e)
			if err != nil {
				return err
			}
			mf, err := migration.CreateMigration(migrationsPath, args[0], description, time.Now())
			if err != nil {
				return err
			}
			e.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			fmt.Fprintln(cmd.OutOrStdout(), mf.UpPath)
			fmt.Fprintln(cmd.OutOrStdout(), mf.DownPath)
			return nil
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "comment written at the top of both files")

	list := &cobra.Command{
		Use:   "list",
		Short: "List migration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrationsPath, err := dir(envFrom(cmd))
			if err != nil {
				return err
			}
			names, err := migration.ListMigrations(migrationsPath)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.AddCommand(up, down, steps, version, force, create, list)
	return cmd
}
