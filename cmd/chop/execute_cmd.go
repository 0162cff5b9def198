package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/output"
	"github.com/raphi011/chop/internal/plan"
)

func newExecuteCmd() *cobra.Command {
	var (
		planFile string
		dryRun   bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Apply a previously saved plan",
		Args:  cobra.NoArgs,
		Long: `Load a plan saved by 'chop plan -o' and apply it: create the working
branch, commit each group, merge into the target and delete the branch.

A failure halts immediately. Nothing is rolled back, the repository is
left at the failing step so it can be inspected and finished by hand.`,
		Example: `  chop execute --plan plan.json            # Apply the saved plan
  chop execute --plan plan.json --dry-run  # Show the steps only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			p, err := plan.Load(planFile)
			if err != nil {
				return err
			}

			if len(p.Groups) == 0 {
				out.Println("Plan has no groups, nothing to commit")
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

	cmd.Flags().StringVarP(&planFile, "plan", "p", "", "Plan file to apply (required)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the steps without touching the repository")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("plan")

	return cmd
}
