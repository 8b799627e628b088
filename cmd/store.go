package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) initCmd() *cobra.Command {
	var username, name, password string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if entries, err := os.ReadDir(c.cfg.DataDir); err == nil && len(entries) > 0 {
				fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}

			repo, err := openRepository(c.cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer repo.Close()

			if password != "" {
				creds, err := buildCredentials(c.cfg, repo)
				if err != nil {
					return err
				}
				if _, _, err := creds.Provision(cmd.Context(), username, name, password); err != nil {
					return fmt.Errorf("create administrator: %w", err)
				}
				fmt.Fprintf(out, "Administrator %s created\n", username)
			}
			fmt.Fprintln(out, "Database initialized successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "administrator login name")
	cmd.Flags().StringVar(&name, "name", "", "administrator display name")
	cmd.Flags().StringVar(&password, "password", "", "administrator password; no administrator is created when empty")
	return cmd
}

func (c *cli) cleanCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := os.Stat(c.cfg.DataDir); os.IsNotExist(err) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(c.cfg.DataDir); err != nil {
				return fmt.Errorf("failed to clean database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) backupCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.cfg.DataDir); os.IsNotExist(err) {
				return errors.New("no database exists to backup")
			}
			if target == "" {
				target = filepath.Join(filepath.Dir(c.cfg.DataDir), "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			repo, err := openRepository(c.cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer f.Close()

			if _, err := repo.Backup(f); err != nil {
				return fmt.Errorf("failed to backup database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "out", "o", "", "backup file (default <data dir>/../backups/backup_<unix time>.db)")
	return cmd
}

func (c *cli) restoreCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			backupFile := args[0]

			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			if _, err := os.Stat(c.cfg.DataDir); err == nil {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(out, "Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(c.cfg.DataDir); err != nil {
					return fmt.Errorf("failed to remove existing database: %w", err)
				}
			}

			f, err := os.Open(backupFile)
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer f.Close()

			repo, err := openRepository(c.cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Restore(f); err != nil {
				return fmt.Errorf("failed to restore database: %w", err)
			}
			fmt.Fprintln(out, "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}
