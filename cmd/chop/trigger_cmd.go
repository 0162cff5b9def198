package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/gate"
	"github.com/raphi011/chop/internal/log"
	"github.com/raphi011/chop/internal/output"
	"github.com/raphi011/chop/internal/plan"
)

func newTriggerCmd() *cobra.Command {
	var (
		flags    planFlags
		stateDir string
		dryRun   bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Batch commit when the active task's pipeline is complete",
		Args:  cobra.NoArgs,
		Long: `Check the workflow state of the repository and, when every phase of
the active task has run, batch commit the pending changes.

Each task triggers at most once: a marker file records finalized tasks,
so repeated invocations are safe.`,
		Example: `  chop trigger                 # Commit if the active task is done
  chop trigger --dry-run       # Check and show the plan only
  chop trigger --dir .flow     # Use a different state directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			root, err := gate.FindRoot(workDir)
			if err != nil {
				return err
			}

			dir := stateDir
			if dir == "" {
				dir = cfg.Gate.Dir
			}
			g := &gate.Gate{Root: root, Dir: dir}

			task, err := g.CurrentTask()
			if errors.Is(err, gate.ErrNoTask) {
				out.Println("No active task")
				return nil
			}
			if err != nil {
				return err
			}
			l.Debug("active task", "task", task)

			if g.Finalized(task) {
				out.Printf("Task %s already finalized\n", task)
				return nil
			}

			state, err := g.LoadTask(task)
			if err != nil {
				return err
			}
			if !state.PipelineComplete() {
				out.Printf("Pipeline not complete (phase %d), nothing to do\n", state.CurrentPhase)
				return nil
			}

			p, err := buildPlan(ctx, root, &flags)
			if errors.Is(err, plan.ErrEmptyChangeset) {
				out.Println("No pending changes")
				if !dryRun {
					return g.MarkFinalized(task)
				}
				return nil
			}
			if err != nil {
				return err
			}

			if len(p.Groups) == 0 {
				out.Println("All pending changes are excluded, nothing to commit")
				if !dryRun {
					return g.MarkFinalized(task)
				}
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

			// Claim the marker before executing so a second trigger for this
			// task stays a no-op even if the run below fails.
			if !dryRun {
				if err := g.MarkFinalized(task); err != nil {
					return err
				}
			}

			return applyPlan(ctx, root, p, dryRun)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&stateDir, "dir", "", "Workflow state directory (default from config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Check and show the plan without committing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
