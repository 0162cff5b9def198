package git

import (
	"context"
	"strings"
)

// Change is one pending working-tree modification: a porcelain status code
// ("M", "A", "D", "R", "??", ...) and the path it applies to. For renames the
// path is the rename destination.
type Change struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// CollectError indicates the status query itself failed. It is fatal to the
// run; the wrapped error carries git's own diagnostic text.
type CollectError struct {
	Err error
}

func (e *CollectError) Error() string {
	return "collect changes: " + e.Err.Error()
}

func (e *CollectError) Unwrap() error {
	return e.Err
}

// Collect returns the pending working-tree changes of the repository at dir,
// in the order git reports them.
func Collect(ctx context.Context, dir string) ([]Change, error) {
	output, err := outputGit(ctx, dir, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return nil, &CollectError{Err: err}
	}
	return parseStatus(string(output)), nil
}

// parseStatus parses `git status --porcelain` output. Each line is
// "XY path" or "XY old -> new" for renames, where only the destination is
// kept.
func parseStatus(out string) []Change {
	var changes []Change
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		status := strings.TrimSpace(line[:2])
		path := line[3:]
		if _, dest, found := strings.Cut(path, " -> "); found {
			path = dest
		}
		changes = append(changes, Change{Status: status, Path: path})
	}
	return changes
}
