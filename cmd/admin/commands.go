package main

import (
	"civicconnect/backend/internal/complaint"
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/lifecycle"
	"civicconnect/backend/internal/storage"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRootCmd(store storage.Store, svc *complaint.Service, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Civic Connect administration tool",
		Long: `Civic Connect administration tool

Inspects and repairs the complaint ledgers and session records in the configured store.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.AddCommand(listCmd(svc.Writer, out))
	rootCmd.AddCommand(setStatusCmd(svc, out))
	rootCmd.AddCommand(divergenceCmd(svc.Writer, out))
	rootCmd.AddCommand(reconcileCmd(svc.Writer, out))
	rootCmd.AddCommand(clearCmd(store, svc.Writer, out))
	return rootCmd
}

func listCmd(w *ledger.Writer, out io.Writer) *cobra.Command {
	var key, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the complaints in a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != lifecycle.FilterAll {
				s, err := lifecycle.Parse(status)
				if err != nil {
					return err
				}
				status = string(s)
			}
			records, err := w.Read(cmd.Context(), key)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tCATEGORY\tNAME\tADDRESS")
			for _, c := range lifecycle.Filter(records, status) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Date, lifecycle.Label(c.Status), complaint.CategoryLabel(c.Category), c.Name, c.Address)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			st := lifecycle.Tally(records)
			fmt.Fprintf(out, "\ntotal %d, pending %d, in-progress %d, resolved %d\n", st.Total, st.Pending, st.InProgress, st.Resolved)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "ledger", config.AdminLedgerKey, "Ledger key to read")
	cmd.Flags().StringVar(&status, "status", lifecycle.FilterAll, "Only show complaints with this status")
	return cmd
}

func setStatusCmd(svc *complaint.Service, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <complaint_id> <status>",
		Short: "Change a complaint's status in every ledger",
		Long: `Change a complaint's status in every ledger that holds it.

Any status may follow any other: pending, in-progress, resolved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := svc.ChangeStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if written == 0 {
				fmt.Fprintf(out, "No ledger changed for complaint %s.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Complaint %s updated in %d ledger(s).\n", args[0], written)
			return nil
		},
	}
}

func divergenceCmd(w *ledger.Writer, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "divergence",
		Short: "Report how the ledgers disagree, without changing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := w.Divergence(cmd.Context())
			if err != nil {
				return err
			}
			printReport(out, report)
			return nil
		},
	}
}

func reconcileCmd(w *ledger.Writer, out io.Writer) *cobra.Command {
	var authority string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rewrite every ledger to match the authority ledger",
		Long: `Rewrite every ledger to match the authority ledger.

Records only other ledgers hold are appended after the authority's records.
Where a complaint differs between ledgers, the authority's copy wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := w.Reconcile(cmd.Context(), authority)
			if err != nil {
				return err
			}
			printReport(out, report)
			if !report.Consistent() {
				fmt.Fprintf(out, "Ledgers rewritten from %s.\n", authority)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&authority, "authority", config.AdminLedgerKey, "Ledger whose records win")
	return cmd
}

func clearCmd(store storage.Store, w *ledger.Writer, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <key>...",
		Short: "Remove ledger or session keys from the store",
		Long: `Remove ledger or session keys from the store.

Naming any ledger clears every ledger, so they never disagree.
Session keys (civic_user, civic_admin) are cleared one by one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledgers := w.Keys()
			sessions := []string{config.CitizenSessionKey, config.AdminSessionKey}

			clearLedgers := false
			var sessionKeys []string
			for _, key := range args {
				switch {
				case slices.Contains(ledgers, key):
					clearLedgers = true
				case slices.Contains(sessions, key):
					if !slices.Contains(sessionKeys, key) {
						sessionKeys = append(sessionKeys, key)
					}
				default:
					return fmt.Errorf("refusing to clear unknown key %q", key)
				}
			}

			if clearLedgers {
				if err := w.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared ledgers %s.\n", strings.Join(ledgers, ", "))
			}
			for _, key := range sessionKeys {
				if err := store.Clear(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %s.\n", key)
			}
			return nil
		},
	}
}

func printReport(out io.Writer, r ledger.Report) {
	if r.Consistent() {
		fmt.Fprintln(out, "Ledgers are consistent.")
		return
	}
	keys := make([]string, 0, len(r.Missing))
	for key := range r.Missing {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "%s is missing: %v\n", key, r.Missing[key])
	}
	if len(r.Mismatched) > 0 {
		fmt.Fprintf(out, "Fields differ for: %v\n", r.Mismatched)
	}
}
