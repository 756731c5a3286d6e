package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the table back without writing",
		Long: `Connect, select the database, and print every row of the table.

Nothing is created or inserted. Fails with exit code 1 if the database or
table does not exist.

Example:
  bootcheck query --namespace test_db --table test_table`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(rootOpts, cmd, (*bootstrap.Flow).Readback)
		},
	}

	return cmd
}
