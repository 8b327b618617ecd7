package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/templui/intake/internal/config"
	"github.com/templui/intake/internal/db"
)

// MigrateCmd applies or rolls back the SQL schema of the sql drivers.
func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema (DB_DRIVER / DB_CONNECTION)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(driver string, database *sqlx.DB) error {
				return db.RunMigrations(database.DB, driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(driver string, database *sqlx.DB) error {
				return db.MigrateDown(database.DB, driver)
			})
		},
	})

	return migrateCmd
}

func withSQL(fn func(driver string, database *sqlx.DB) error) error {
	// Only the SQL settings matter here, whatever the selected drivers
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSQL(); err != nil {
		return err
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(database)

	return fn(cfg.DBDriver, database)
}
