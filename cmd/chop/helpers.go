package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/apply"
	"github.com/raphi011/chop/internal/output"
	"github.com/raphi011/chop/internal/plan"
	"github.com/raphi011/chop/internal/ui/prompt"
	"github.com/raphi011/chop/internal/ui/static"
)

// planFlags are the plan-shaping flags shared by the plan and auto commands.
type planFlags struct {
	target  string
	branch  string
	exclude []string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Merge target branch (default from config)")
	cmd.Flags().StringVarP(&f.branch, "branch", "b", "", "Working branch name (default generated)")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "Additional exclusion patterns")
}

func (f *planFlags) options() plan.Options {
	target := cfg.Target
	if f.target != "" {
		target = f.target
	}
	return plan.Options{
		Rules:        cfg.Rules().WithExcludes(f.exclude...),
		Target:       target,
		BranchPrefix: cfg.BranchPrefix,
		Branch:       f.branch,
	}
}

func buildPlan(ctx context.Context, dir string, f *planFlags) (*plan.Plan, error) {
	return plan.Build(ctx, dir, f.options())
}

// renderPlan writes the human-readable plan summary.
func renderPlan(out *output.Printer, p *plan.Plan) {
	out.Printf("Branch %s -> %s, %d commits, %d files\n\n", p.Branch, p.Target, len(p.Groups), p.TotalFiles())
	out.Print(static.PlanTable(p))
	for _, g := range p.Groups {
		out.Printf("\n%s:\n", g.Name)
		for i, f := range g.Files {
			out.Printf("  %-2s %s\n", g.Statuses[i], f)
		}
	}
	if len(p.Excluded) > 0 {
		out.Printf("\nExcluded (%d):\n", len(p.Excluded))
		for _, path := range p.Excluded {
			out.Printf("  %s\n", path)
		}
	}
}

// confirmApply asks before mutating the repository. --yes skips the prompt;
// without a terminal the prompt cannot be shown and --yes is required.
func confirmApply(yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("stdin is not a terminal, re-run with --yes")
	}
	result, err := prompt.Confirm(message)
	if err != nil {
		return false, err
	}
	return result.Confirmed && !result.Cancelled, nil
}

// applyPlan executes the plan, reporting each step on stdout.
func applyPlan(ctx context.Context, dir string, p *plan.Plan, dryRun bool) error {
	out := output.FromContext(ctx)
	executor := &apply.Executor{
		Git:    &apply.Repo{Dir: dir},
		DryRun: dryRun,
		Report: func(format string, args ...any) {
			out.Printf(format+"\n", args...)
		},
	}
	return executor.Apply(ctx, p)
}
