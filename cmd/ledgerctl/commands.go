package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/audit"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/reconcile"
)

func newLedgerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <group-id>",
		Short: "Print the live debt edges of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			l, _ := a.engines(store)
			edges, err := l.GroupLedger(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, edges)
		},
	}
}

func newSimplifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <group-id>",
		Short: "Print the suggested payments that settle a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			l, _ := a.engines(store)
			summary, err := l.GroupSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}
}

func newReconcileCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reconcile [group-id]",
		Short: "Compare live ledgers with their history",
		Long: "Recompute the ledger of a group from its expenses and settlements and report\n" +
			"every pair whose live balance disagrees. With --all, every group is checked.\n" +
			"Exits non-zero when any discrepancy is found.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass exactly one of <group-id> or --all")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			_, engine := a.engines(store)

			if !all {
				report, err := engine.Reconcile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := printJSON(cmd, report); err != nil {
					return err
				}
				if report.Status != reconcile.StatusOK {
					return fmt.Errorf("group %s: %d discrepancies", report.GroupID, report.DiscrepanciesFound)
				}
				return nil
			}

			summary, err := audit.NewScheduler(store, engine, a.cfg.AuditConcurrency, a.logger).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if summary == nil {
				return errors.New("another audit pass is running")
			}
			if err := printJSON(cmd, summary); err != nil {
				return err
			}
			if len(summary.Mismatched) > 0 || len(summary.Failed) > 0 {
				return fmt.Errorf("%d groups mismatched, %d failed", len(summary.Mismatched), len(summary.Failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reconcile every group")
	return cmd
}

func newRebuildCmd(a *app) *cobra.Command {
	var (
		yes   bool
		actor string
	)

	cmd := &cobra.Command{
		Use:   "rebuild <group-id>",
		Short: "Replace a group's live ledger with the recomputed one",
		Long: "Rebuild deletes every debt edge of the group and writes the edges its history\n" +
			"implies. The previous and new ledgers are recorded in the audit trail.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("rebuild is destructive; pass --yes to confirm")
			}
			if actor == "" {
				return errors.New("--actor is required")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			_, engine := a.engines(store)
			result, err := engine.Rebuild(cmd.Context(), args[0], actor)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the rebuild")
	cmd.Flags().StringVar(&actor, "actor", "", "operator recorded in the audit trail")
	return cmd
}

func newGroupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List every group in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			groups, err := store.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			if groups == nil {
				groups = []models.Group{}
			}
			return printJSON(cmd, groups)
		},
	}
}

func newDeleteGroupCmd(a *app) *cobra.Command {
	var (
		yes   bool
		actor string
	)

	cmd := &cobra.Command{
		Use:   "delete-group <group-id>",
		Short: "Delete a group with its expenses, settlements and ledger",
		Long: "Delete-group removes the group row; its expenses, settlements and debt edges\n" +
			"go with it. The ledger as it stood is recorded in the audit trail.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("delete-group is destructive; pass --yes to confirm")
			}
			if actor == "" {
				return errors.New("--actor is required")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			l, _ := a.engines(store)
			entry, err := l.DeleteGroup(cmd.Context(), args[0], actor)
			if err != nil {
				return err
			}
			return printJSON(cmd, entry)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	cmd.Flags().StringVar(&actor, "actor", "", "operator recorded in the audit trail")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		admin  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			token, err := auth.NewJWTManager(a.cfg.JWTSecret, a.cfg.TokenTTL).Generate(userID, admin)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to put in the token")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin claim")
	return cmd
}
