package commands

import (
	"errors"
	"fmt"
	"strings"

	"example.com/socialfeed/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var (
	upSteps   int
	downSteps int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or roll back the embedded Postgres migrations.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(func(m *migrate.Migrate) error {
			if upSteps > 0 {
				return m.Steps(upSteps)
			}
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  socialfeed migrate down            # Roll back the last migration
  socialfeed migrate down --steps 0  # Roll back everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(func(m *migrate.Migrate) error {
			if downSteps > 0 {
				return m.Steps(-downSteps)
			}
			return m.Down()
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateUpCmd.Flags().IntVar(&upSteps, "steps", 0, "Number of migrations to apply (0 = all)")
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back (0 = all)")
}

func runMigrate(fn func(m *migrate.Migrate) error) error {
	cfg := loadConfig()
	if strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
		return errors.New("migrations apply to Postgres only; sqlite schemas are created on startup")
	}

	m, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logg.Info("migrate", "No migrations to run")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	logg.Info("migrate", "Migrations completed")
	return nil
}
