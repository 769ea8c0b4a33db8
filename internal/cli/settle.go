package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
)

func newBalancesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show balances and the pending settlement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				snap := a.manager.Snapshot()
				out := cmd.OutOrStdout()

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "MEMBER\tPAID\tOWED\tNET")
				for _, b := range calculator.Summarize(snap.Members, snap.Expenses) {
					if b.TotalPaid <= calculator.BalanceEpsilon && b.TotalOwed <= calculator.BalanceEpsilon {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Member,
						report.FormatAmount(b.TotalPaid), report.FormatAmount(b.TotalOwed), report.FormatAmount(b.NetBalance))
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				result := a.manager.Preview()
				fmt.Fprintln(out)
				return printTransactions(out, result.Transactions, result.MainCreditor)
			})
		},
	}
}

func newSettleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settle",
		Short: "Settle every active expense into a new bill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				bill, err := a.manager.Settle()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Settled bill %s on %s: %d expenses, total %s\n",
					bill.ID, bill.Date, len(bill.Expenses), report.FormatAmount(models.TotalAmount(bill.Expenses)))
				return printTransactions(out, bill.Transactions, bill.MainCreditor)
			})
		},
	}
}

func printTransactions(out io.Writer, txs []models.Transaction, mainCreditor models.Member) error {
	if len(txs) == 0 {
		fmt.Fprintln(out, "Everyone is settled up.")
		return nil
	}
	if mainCreditor != "" {
		fmt.Fprintf(out, "Main creditor: %s\n", mainCreditor)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t->\t%s\t%s\n", t.From, t.To, report.FormatAmount(t.Amount))
	}
	return tw.Flush()
}
