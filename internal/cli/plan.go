package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bootcheck/internal/clickhouse"
)

// PlanResult is the JSON payload of the plan command.
type PlanResult struct {
	Statements []string `json:"statements"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the statements a run would issue",
		Long: `Print, one per line, the ClickHouse statements that "bootcheck run"
issues for the configured target. Nothing is connected to.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, cmd)
		},
	}

	return cmd
}

func runPlan(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	stmts := clickhouse.Plan(cfg.Target())

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(PlanResult{Statements: stmts})
	}

	w := cmd.OutOrStdout()
	for _, stmt := range stmts {
		fmt.Fprintln(w, stmt)
	}
	return nil
}
