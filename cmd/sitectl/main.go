// Command sitectl inspects the blog content and maintains the site database from the
// command line.
package main

import (
	"fmt"
	"marketing-site/internal/app"
	"marketing-site/internal/config"
	"marketing-site/internal/logger"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Manage the TableTap marketing site",
	Long: `sitectl reads the same configuration as the web server (config.yml or
SITE_* environment variables) and works against the same Notion database.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and a logger that writes to stderr, keeping stdout for
// command output.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	logCfg := cfg.Log
	logCfg.Format = "console"
	if verbose {
		logCfg.Level = "debug"
	} else {
		logCfg.Level = "warn"
	}
	return cfg, logger.New(logCfg, os.Stderr), nil
}

// content wires the content pipeline; the caller must Close it.
func content() (*app.Content, logger.Logger, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, nil, err
	}
	c, err := app.NewContent(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return c, log, nil
}
