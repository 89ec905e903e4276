package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HerbHall/contactbook/internal/backup"
)

func newRestoreCmd() *cobra.Command {
	var (
		input   string
		dataDir string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := backup.Restore(cmd.Context(), input, dataDir, force)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restore complete: %s from %s restored to %s\n",
				m.Database, m.CreatedAt.Format("2006-01-02 15:04:05"), dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "backup archive to restore")
	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "target directory for restored files")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
