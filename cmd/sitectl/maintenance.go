package main

import (
	"errors"
	"fmt"
	"marketing-site/internal/cache"
	"marketing-site/internal/data"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		if err := data.ApplyMigrations(cfg.DB); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DB.Driver)
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Drop every cached Notion response",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		if cfg.Cache.FilePath == "" {
			return errors.New("no cache file configured")
		}
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached entries\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(purgeCmd)
}
