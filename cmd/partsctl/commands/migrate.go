package commands

import (
	"partsadmin/cmd/partsctl/output"
	"partsadmin/internal/infra"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or inspect the embedded schema migrations.

Subcommands:
  up      - Apply pending migrations
  status  - Show the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := infra.Migrate(db); err != nil {
			return err
		}
		version, err := infra.MigrationStatus(db)
		if err != nil {
			return err
		}
		output.Success("schema at version %d", version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		version, err := infra.MigrationStatus(db)
		if err != nil {
			return err
		}
		if version == 0 {
			output.Warning("no migrations applied")
			return nil
		}
		output.Info("schema at version %d", version)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
