package git

import (
	"context"
	"fmt"
	"strings"
)

// CurrentBranch returns the current branch name.
// Returns an error for detached HEAD state.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("not on a branch (detached HEAD)")
	}
	return branch, nil
}

// SwitchBranch checks out the named branch, creating it first when create is
// set.
func SwitchBranch(ctx context.Context, dir, name string, create bool) error {
	args := []string{"checkout"}
	if create {
		args = append(args, "-b")
	}
	args = append(args, name)
	return runGit(ctx, dir, args...)
}

// Stage adds paths to the index.
func Stage(ctx context.Context, dir string, paths ...string) error {
	return runGit(ctx, dir, append([]string{"add", "--"}, paths...)...)
}

// Remove stages the deletion of paths.
func Remove(ctx context.Context, dir string, paths ...string) error {
	return runGit(ctx, dir, append([]string{"rm", "--"}, paths...)...)
}

// Commit records the staged changes with the given message.
func Commit(ctx context.Context, dir, message string) error {
	return runGit(ctx, dir, "commit", "-m", message)
}

// MergeNoFF merges branch into the current branch with an explicit merge
// commit.
func MergeNoFF(ctx context.Context, dir, branch, message string) error {
	return runGit(ctx, dir, "merge", "--no-ff", branch, "-m", message)
}

// DeleteBranch deletes a local branch.
func DeleteBranch(ctx context.Context, dir, branch string) error {
	return runGit(ctx, dir, "branch", "-d", branch)
}

// BranchExists returns true if the named local branch exists.
func BranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch) == nil
}
