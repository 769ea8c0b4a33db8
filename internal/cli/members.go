package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMembersCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the member roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List roster members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				for _, m := range a.manager.Snapshot().Members {
					fmt.Fprintln(cmd.OutOrStdout(), m)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a member to the roster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				member, err := a.manager.AddMember(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", member)
				return nil
			})
		},
	})

	return cmd
}
