package main

import (
	"fmt"
	"os"

	"github.com/cotten321/Excel-Grader/pkg/grader/assignment"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAssignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "List the built-in assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := assignment.Builtins()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Title", "Checks", "Total", "Bonus")
			for _, a := range all {
				if err := table.Append(
					a.ID,
					a.Title,
					fmt.Sprintf("%d", len(a.Checks)),
					fmt.Sprintf("%g", a.Total),
					fmt.Sprintf("%g", a.BonusPoints()),
				); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
