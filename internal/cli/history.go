package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse settled bills",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List settled bills, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				history := a.manager.Snapshot().History
				out := cmd.OutOrStdout()

				stats := report.NewHistoryStats(history)
				fmt.Fprintf(out, "%d settlements, %d expenses, total %s\n",
					stats.Settlements, stats.Expenses, report.FormatAmount(stats.TotalAmount))
				if len(history) == 0 {
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tID\tDATE\tEXPENSES\tTOTAL\tMAIN CREDITOR")
				for i, b := range history {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
						len(history)-i, b.ID, b.Date, len(b.Expenses),
						report.FormatAmount(models.TotalAmount(b.Expenses)), b.MainCreditor)
				}
				return tw.Flush()
			})
		},
	})

	var member string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a settled bill, or one member's statement with --member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				bill, err := a.manager.ViewBill(args[0])
				if err != nil {
					return err
				}
				defer a.manager.CloseBill()

				out := cmd.OutOrStdout()
				if member != "" {
					s, err := report.NewMemberStatement(bill, models.NormalizeMember(member))
					if err != nil {
						return fmt.Errorf("%w: %s", err, member)
					}
					return printStatement(out, s)
				}

				fmt.Fprintf(out, "Bill %s settled on %s\n\n", bill.ID, bill.Date)
				if err := report.WriteTable(out, report.NewBillReport(bill, a.manager.Snapshot().Members)); err != nil {
					return err
				}
				fmt.Fprintln(out)
				for _, s := range report.Statements(bill, a.manager.Snapshot().Members) {
					if err := printStatement(out, s); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	show.Flags().StringVarP(&member, "member", "m", "", "Show only this member's statement")
	cmd.AddCommand(show)

	return cmd
}

func printStatement(out io.Writer, s report.MemberStatement) error {
	switch {
	case s.Owes():
		fmt.Fprintf(out, "%s pays %s\n", s.Member, report.FormatAmount(-s.Net))
	case s.IsOwed():
		fmt.Fprintf(out, "%s receives %s\n", s.Member, report.FormatAmount(s.Net))
	default:
		fmt.Fprintf(out, "%s is settled\n", s.Member)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, l := range s.Paid {
		fmt.Fprintf(tw, "  paid\t%s\t%s\n", l.ItemName, report.FormatAmount(l.Amount))
	}
	for _, l := range s.Shares {
		fmt.Fprintf(tw, "  share\t%s\t%s\n", l.ItemName, report.FormatAmount(l.Amount))
	}
	for _, t := range s.Pay {
		fmt.Fprintf(tw, "  pay\t%s\t%s\n", t.To, report.FormatAmount(t.Amount))
	}
	for _, t := range s.Receive {
		fmt.Fprintf(tw, "  receive\t%s\t%s\n", t.From, report.FormatAmount(t.Amount))
	}
	return tw.Flush()
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var (
		asCSV  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "report [ID]",
		Short: "Export the member x item report of a settled bill (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				snap := a.manager.Snapshot()
				if len(snap.History) == 0 {
					return errors.New("no settled bills yet")
				}

				bill := snap.History[0]
				if len(args) == 1 {
					var ok bool
					if bill, ok = snap.Bill(args[0]); !ok {
						return fmt.Errorf("settled bill not found: %s", args[0])
					}
				}
				r := report.NewBillReport(bill, snap.Members)

				out := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer f.Close()
					out = f
				}

				if asCSV {
					return report.WriteCSV(out, r)
				}
				return report.WriteTable(out, r)
			})
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write CSV instead of a text table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
