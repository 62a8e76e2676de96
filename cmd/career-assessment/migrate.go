package main

import (
	"fmt"

	"github.com/SAP-F-2025/career-assessment-service/pkg"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the result table migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to get sql.DB: %w", err)
			}
			defer sqlDB.Close()

			if status {
				return pkg.MigrationStatus(cmd.Context(), sqlDB)
			}
			if err := pkg.RunMigrations(cmd.Context(), sqlDB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("Migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "print migration status instead of applying")
	return cmd
}
