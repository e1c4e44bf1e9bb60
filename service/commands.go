package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"simplefeed/app/repositories"

	"github.com/spf13/cobra"
)

var (
	ErrStoreExists  = errors.New("store already exists")
	ErrNoStore      = errors.New("no store exists")
	ErrNoBackupFile = errors.New("backup file does not exist")
	ErrCancelled    = errors.New("operation cancelled")
)

// confirm asks question on out and reads a y/N answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func (c *cli) storeExists() bool {
	_, err := os.Stat(c.cfg.StoragePath())
	return err == nil
}

func (c *cli) openStore() (*repositories.Store, error) {
	return repositories.Open(c.cfg.Storage.Driver, c.cfg.StoragePath(), c.logger)
}

// removeStore deletes the store and, for sqlite, its WAL side files.
func (c *cli) removeStore() error {
	path := c.cfg.StoragePath()
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	if c.cfg.Storage.Driver == repositories.DriverSQLite {
		for _, suffix := range []string{"-wal", "-shm"} {
			if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func (c *cli) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.storeExists() {
				return fmt.Errorf("%w at %s; use 'clean' first if you want to reinitialize", ErrStoreExists, c.cfg.StoragePath())
			}
			store, err := c.openStore()
			if err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store initialized successfully at %s\n", c.cfg.StoragePath())
			return nil
		},
	}
}

func (c *cli) cleanCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !c.storeExists() {
				fmt.Fprintln(out, "Store is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to clean the store? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}
			if err := c.removeStore(); err != nil {
				return fmt.Errorf("failed to clean store: %w", err)
			}
			fmt.Fprintln(out, "Store cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) backupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the store into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.storeExists() {
				return fmt.Errorf("%w to back up", ErrNoStore)
			}
			store, err := c.openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			file, err := store.Backup(c.cfg.Storage.BackupDir)
			if err != nil {
				return fmt.Errorf("failed to back up store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store backed up successfully to %s\n", file)
			return nil
		},
	}
}

func (c *cli) restoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the store from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			file := args[0]
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("%w: %s", ErrNoBackupFile, file)
			}

			store, err := c.openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			empty, err := store.Empty()
			if err != nil {
				return err
			}
			if !empty && !yes && !confirm(cmd.InOrStdin(), out, "Existing posts found. Do you want to replace them?") {
				fmt.Fprintln(out, "Operation cancelled")
				return ErrCancelled
			}

			if err := store.Restore(file); err != nil {
				return fmt.Errorf("failed to restore store: %w", err)
			}
			fmt.Fprintln(out, "Store restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace a non-empty store without asking")
	return cmd
}
