package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
)

type addExpenseOptions struct {
	payer        string
	participants []string
	amount       float64
	item         string
	split        string
	shares       []string
}

func newExpensesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense"},
		Short:   "Manage the active expenses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List expenses waiting to be settled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				return printExpenses(cmd, a.manager.Snapshot().Expenses)
			})
		},
	})

	add := &addExpenseOptions{}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Example: `  settleup expenses add --payer "Ngoc Bao" --amount 300000 --item Hotel
  settleup expenses add --payer "Ngoc Bao" --amount 90000 --item Taxi --split manually \
      --share "Ngoc Bao=30000" --share "Khac Dat=60000"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				expense, err := add.build(a.manager.Snapshot().Members)
				if err != nil {
					return err
				}
				recorded, err := a.manager.AddExpense(expense)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) paid by %s: %s\n",
					recorded.ItemName, recorded.ID, recorded.Payer, report.FormatAmount(recorded.Amount))
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&add.payer, "payer", "p", "", "Member who paid")
	addCmd.Flags().StringSliceVar(&add.participants, "participants", nil, "Comma-separated participants (default: whole roster, or the members of --share)")
	addCmd.Flags().Float64VarP(&add.amount, "amount", "a", 0, "Amount paid")
	addCmd.Flags().StringVarP(&add.item, "item", "i", "", "Item name")
	addCmd.Flags().StringVar(&add.split, "split", "evenly", "Split method: evenly or manually")
	addCmd.Flags().StringArrayVar(&add.shares, "share", nil, "Manual share as NAME=AMOUNT (repeatable)")
	addCmd.MarkFlagRequired("payer")
	addCmd.MarkFlagRequired("amount")
	addCmd.MarkFlagRequired("item")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete an active expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				if err := a.manager.DeleteExpense(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func (o *addExpenseOptions) build(roster []models.Member) (models.Expense, error) {
	method, err := models.ParseSplitMethod(strings.ToUpper(o.split))
	if err != nil {
		return models.Expense{}, err
	}

	e := models.Expense{
		Payer:        models.NormalizeMember(o.payer),
		Participants: parseMembers(o.participants),
		Amount:       o.amount,
		ItemName:     strings.TrimSpace(o.item),
		SplitMethod:  method,
	}

	if method == models.SplitManually {
		e.ManualSplits = make(map[models.Member]float64, len(o.shares))
		var fromShares []models.Member
		for _, s := range o.shares {
			name, value, ok := strings.Cut(s, "=")
			if !ok {
				return models.Expense{}, fmt.Errorf("invalid share %q: want NAME=AMOUNT", s)
			}
			amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return models.Expense{}, fmt.Errorf("invalid share amount %q: %w", value, err)
			}
			member := models.NormalizeMember(name)
			if _, seen := e.ManualSplits[member]; !seen {
				fromShares = append(fromShares, member)
			}
			e.ManualSplits[member] += amount
		}
		if len(e.Participants) == 0 {
			e.Participants = fromShares
		}
	}

	if len(e.Participants) == 0 {
		e.Participants = append([]models.Member{}, roster...)
	}
	return e, nil
}

func printExpenses(cmd *cobra.Command, expenses []models.Expense) error {
	out := cmd.OutOrStdout()
	if len(expenses) == 0 {
		fmt.Fprintln(out, "No active expenses.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tPAYER\tAMOUNT\tSPLIT\tPARTICIPANTS")
	for _, e := range expenses {
		names := make([]string, len(e.Participants))
		for i, p := range e.Participants {
			names[i] = string(p)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.ItemName, e.Payer, report.FormatAmount(e.Amount), e.SplitMethod, strings.Join(names, ", "))
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%s\t\t\n", report.FormatAmount(models.TotalAmount(expenses)))
	return tw.Flush()
}
