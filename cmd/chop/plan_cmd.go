package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/log"
	"github.com/raphi011/chop/internal/output"
	"github.com/raphi011/chop/internal/plan"
)

func newPlanCmd() *cobra.Command {
	var (
		flags      planFlags
		outputFile string
		jsonOutput bool
		copyJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a batch-commit plan without touching the repository",
		Args:  cobra.NoArgs,
		Long: `Collect the pending changes, group them into future commits and show
the resulting plan. The repository is not modified.

Use --output to save the plan for a later 'chop execute'.`,
		Example: `  chop plan                        # Show the plan
  chop plan -e "*.env" -e "dist/"  # Exclude extra patterns
  chop plan -o plan.json           # Save the plan to a file
  chop plan --json                 # Print the plan as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			p, err := buildPlan(ctx, workDir, &flags)
			if errors.Is(err, plan.ErrEmptyChangeset) {
				out.Println("No pending changes")
				return nil
			}
			if err != nil {
				return err
			}

			l.Debug("plan built", "groups", len(p.Groups), "files", p.TotalFiles(), "excluded", len(p.Excluded))

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				if err := enc.Encode(p); err != nil {
					return err
				}
			} else {
				renderPlan(out, p)
			}

			if outputFile != "" {
				if err := p.Save(outputFile); err != nil {
					return fmt.Errorf("save plan: %w", err)
				}
				l.Printf("Plan saved to %s\n", outputFile)
			}

			if copyJSON {
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return err
				}
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copy plan to clipboard: %w", err)
				}
				l.Println("Plan copied to clipboard")
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Save the plan as JSON to this file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan as JSON")
	cmd.Flags().BoolVar(&copyJSON, "copy", false, "Copy the plan JSON to the clipboard")

	return cmd
}
