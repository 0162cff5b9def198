package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/output"
	"github.com/raphi011/chop/internal/plan"
)

func newAutoCmd() *cobra.Command {
	var (
		flags  planFlags
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Build a plan and apply it in one step",
		Args:  cobra.NoArgs,
		Long: `Collect the pending changes, build the plan and apply it immediately.
The plan is shown and confirmed before the repository is touched.`,
		Example: `  chop auto                        # Plan and apply
  chop auto --target master        # Merge into master instead
  chop auto --dry-run              # Show what would happen
  chop auto --yes                  # Skip the confirmation prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := buildPlan(ctx, workDir, &flags)
			if errors.Is(err, plan.ErrEmptyChangeset) {
				out.Println("No pending changes")
				return nil
			}
			if err != nil {
				return err
			}

			if len(p.Groups) == 0 {
				out.Println("All pending changes are excluded, nothing to commit")
				return nil
			}

			renderPlan(out, p)
			out.Println()

			if !dryRun {
				ok, err := confirmApply(yes, "Apply this plan?")
				if err != nil {
					return err
				}
				if !ok {
					out.Println("Aborted")
					return nil
				}
			}

			return applyPlan(ctx, workDir, p, dryRun)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the steps without touching the repository")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
