// Command eposupdate runs EPOS mass updates from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eposupdate/internal/config"
	"eposupdate/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands.
type cli struct {
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "eposupdate",
		Short: "Bulk update EPOS records from a CSV of record ids",
		Long: `eposupdate reads a CSV whose first column holds EPOS record ids, converts
15-character ids to their 18-character form, validates them, writes an
xlsx report of invalid ids and submits the valid ids in one bulk update.

Configuration is read from EPOSUPDATE_* environment variables and an
optional .env file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRunCmd(c))
	root.AddCommand(newNormalizeCmd())
	return root
}

// setup loads configuration and the logger for commands that need them.
func (c *cli) setup() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) teardown() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
