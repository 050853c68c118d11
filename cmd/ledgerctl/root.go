package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/reconcile"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

// app holds what every subcommand needs once the root command has run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	dbPath string
}

// openStore opens the ledger database. The caller closes it.
func (a *app) openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(a.dbPath,
		sqlite.WithReadPoolSize(a.cfg.ReadPoolSize),
		sqlite.WithRetryAttempts(a.cfg.TxRetryAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.dbPath, err)
	}
	return store, nil
}

func (a *app) engines(store *sqlite.Store) (*ledger.Ledger, *reconcile.Engine) {
	return ledger.New(store, ledger.WithLogger(a.logger)),
		reconcile.New(store, reconcile.WithLogger(a.logger))
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string) int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operate the splitledger debt ledger",
		Long:          "Inspect, reconcile, rebuild and delete group debt ledgers directly against the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.dbPath == "" {
				a.dbPath = cfg.DBPath
			}

			// Logs go to stderr so stdout stays machine-readable.
			a.logger = logging.New(stderr, cfg.SlogLevel(), cfg.LogFormat)
			for _, w := range cfg.Warnings {
				a.logger.Debug(w)
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default $DB_PATH)")

	rootCmd.AddCommand(
		newLedgerCmd(a),
		newSimplifyCmd(a),
		newReconcileCmd(a),
		newRebuildCmd(a),
		newGroupsCmd(a),
		newDeleteGroupCmd(a),
		newTokenCmd(a),
	)
	return rootCmd
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
