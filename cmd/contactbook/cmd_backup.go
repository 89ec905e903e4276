package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HerbHall/contactbook/internal/backup"
	"github.com/HerbHall/contactbook/internal/config"
)

func newBackupCmd(configPath *string) *cobra.Command {
	var output, dbPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the database and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				v, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				dbPath = config.New(v).GetString("database.path")
			}
			if output == "" {
				output = fmt.Sprintf("contactbook-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
			}

			m, err := backup.Backup(cmd.Context(), dbPath, *configPath, output)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s (database %s, version %s)\n", output, m.Database, m.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output file path (default: contactbook-backup-{timestamp}.tar.gz)")
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default: database.path from config)")
	return cmd
}
