package cmd

import (
	"fmt"

	"clipnote/internal/config"
	"clipnote/internal/store/primary"

	"github.com/spf13/cobra"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
	Long: `Applies or rolls back the embedded PostgreSQL migrations. The SQLite
store creates its schema on open and needs no migrations.`,
	Annotations: map[string]string{skipAppAnnotation: "true"},
}

var migrateUpCmd = &cobra.Command{
	Use:         "up",
	Short:       "Apply all pending migrations",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *primary.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:         "down",
	Short:       "Roll back migrations",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *primary.Migrator) error {
			if err := m.Down(migrateDownSteps); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show the applied schema version",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *primary.Migrator) error {
			return printVersion(cmd, m)
		})
	},
}

func withMigrator(cmd *cobra.Command, fn func(*primary.Migrator) error) error {
	cfg, err := GetConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the postgres driver only, configured driver is %q", cfg.Database.Driver)
	}
	m, err := primary.NewMigrator(cfg.Database.Primary.DSN)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *primary.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d%s\n", version, state)
	return nil
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
