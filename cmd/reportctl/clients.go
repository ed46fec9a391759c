package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newClientsCommand(open serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List the configured clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTIMEZONE\tCASH TRACKING")
			for _, c := range svc.Clients() {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", c.Name, c.Timezone, c.CashTracking)
			}
			return tw.Flush()
		},
	}
}
