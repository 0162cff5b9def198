// Package apply executes a batch-commit plan against a repository: it creates
// the working branch, commits each group in plan order, merges the branch into
// the target and deletes it. Execution is strictly forward, a failure halts
// and leaves the repository where it stopped.
package apply

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/chop/internal/log"
	"github.com/raphi011/chop/internal/plan"
)

// State is the executor's phase. It advances monotonically; errors carry the
// phase during which they occurred.
type State int

const (
	StateStart State = iota
	StateBranchCreated
	StateCommitting
	StateMerging
	StateCleanedUp
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateBranchCreated:
		return "branch-created"
	case StateCommitting:
		return "committing"
	case StateMerging:
		return "merging"
	case StateCleanedUp:
		return "cleaned-up"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Git is the repository surface the executor needs. *Repo implements it over
// a real repository; tests substitute a recorder.
type Git interface {
	BranchExists(ctx context.Context, name string) bool
	SwitchBranch(ctx context.Context, name string, create bool) error
	Stage(ctx context.Context, paths ...string) error
	Remove(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	MergeNoFF(ctx context.Context, branch, message string) error
	DeleteBranch(ctx context.Context, name string) error
}

// OpError reports a failed repository operation together with where in the
// run it happened. The repository is left as the failing operation left it,
// nothing is rolled back.
type OpError struct {
	State State
	Group string
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("%s %q (%s): %v", e.Op, e.Group, e.State, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.State, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Executor applies plans. With DryRun set it walks the same steps and emits
// the same report lines without touching the repository.
type Executor struct {
	Git    Git
	DryRun bool
	// Report receives one line per step. Nil means silent.
	Report func(format string, args ...any)
}

func (e *Executor) reportf(format string, args ...any) {
	if e.Report != nil {
		e.Report(format, args...)
	}
}

// Apply runs the plan to completion. A nil error means every group was
// committed, the working branch was merged into the target and deleted.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan) error {
	state := StateStart
	logger := log.FromContext(ctx)

	if !e.DryRun && e.Git.BranchExists(ctx, p.Branch) {
		return &OpError{State: state, Op: "check branch", Err: fmt.Errorf("branch %q already exists", p.Branch)}
	}

	e.reportf("creating branch %s", p.Branch)
	if !e.DryRun {
		if err := e.Git.SwitchBranch(ctx, p.Branch, true); err != nil {
			return &OpError{State: state, Op: "create branch", Err: err}
		}
	}
	state = StateBranchCreated
	logger.Debug("state transition", "state", state)

	state = StateCommitting
	for _, g := range p.Groups {
		e.reportf("committing %s: %s", g.Name, g.Message)
		if err := e.commitGroup(ctx, g); err != nil {
			return &OpError{State: state, Group: g.Name, Op: "commit group", Err: err}
		}
	}

	state = StateMerging
	logger.Debug("state transition", "state", state)
	e.reportf("merging %s into %s", p.Branch, p.Target)
	if !e.DryRun {
		if err := e.Git.SwitchBranch(ctx, p.Target, false); err != nil {
			return &OpError{State: state, Op: "switch to target", Err: err}
		}
		msg := mergeMessage(p)
		if err := e.Git.MergeNoFF(ctx, p.Branch, msg); err != nil {
			return &OpError{State: state, Op: "merge", Err: err}
		}
	}

	state = StateCleanedUp
	logger.Debug("state transition", "state", state)
	e.reportf("deleting branch %s", p.Branch)
	if !e.DryRun {
		if err := e.Git.DeleteBranch(ctx, p.Branch); err != nil {
			return &OpError{State: state, Op: "delete branch", Err: err}
		}
	}

	state = StateDone
	logger.Debug("state transition", "state", state)
	e.reportf("done: %d commits merged into %s", len(p.Groups), p.Target)
	return nil
}

// commitGroup stages the group's files in their recorded order and commits
// them. Deleted files go through git rm so the deletion is recorded.
func (e *Executor) commitGroup(ctx context.Context, g plan.Group) error {
	if e.DryRun {
		return nil
	}

	for i, f := range g.Files {
		if g.Statuses[i] == "D" {
			if err := e.Git.Remove(ctx, f); err != nil {
				return err
			}
			continue
		}
		if err := e.Git.Stage(ctx, f); err != nil {
			return err
		}
	}
	return e.Git.Commit(ctx, g.Message)
}

func mergeMessage(p *plan.Plan) string {
	return "merge: batch commit of " + strings.Join(p.GroupNames(), ", ")
}
