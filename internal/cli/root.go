// Package cli implements the settleup command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/pkg/logging"
)

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg *config.Config
}

// NewRootCommand builds the settleup command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "settleup",
		Short: "Track shared expenses and settle them up",
		Long: `settleup records who paid for what within a group and settles the debts.

Each settlement routes every debtor's payment to a single main creditor, the member
who is owed the most, who then pays out any other creditors.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCommand(opts),
		newMembersCommand(opts),
		newExpensesCommand(opts),
		newBalancesCommand(opts),
		newSettleCommand(opts),
		newHistoryCommand(opts),
		newReportCommand(opts),
		newResetCommand(opts),
	)
	return cmd
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.Storage.Backend = config.BackendSQLite
		cfg.Storage.DBPath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Setup(cfg.Log.Level); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// Execute runs the settleup command line.
func Execute() error {
	return NewRootCommand().Execute()
}
