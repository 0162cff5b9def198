package apply

import (
	"context"

	"github.com/raphi011/chop/internal/git"
)

// Repo adapts the git package to the Git interface for a fixed repository
// directory.
type Repo struct {
	Dir string
}

var _ Git = (*Repo)(nil)

func (r *Repo) BranchExists(ctx context.Context, name string) bool {
	return git.BranchExists(ctx, r.Dir, name)
}

func (r *Repo) SwitchBranch(ctx context.Context, name string, create bool) error {
	return git.SwitchBranch(ctx, r.Dir, name, create)
}

func (r *Repo) Stage(ctx context.Context, paths ...string) error {
	return git.Stage(ctx, r.Dir, paths...)
}

func (r *Repo) Remove(ctx context.Context, paths ...string) error {
	return git.Remove(ctx, r.Dir, paths...)
}

func (r *Repo) Commit(ctx context.Context, message string) error {
	return git.Commit(ctx, r.Dir, message)
}

func (r *Repo) MergeNoFF(ctx context.Context, branch, message string) error {
	return git.MergeNoFF(ctx, r.Dir, branch, message)
}

func (r *Repo) DeleteBranch(ctx context.Context, name string) error {
	return git.DeleteBranch(ctx, r.Dir, name)
}
