package plan

import (
	"context"
	"sort"
	"time"

	"github.com/raphi011/chop/internal/classify"
	"github.com/raphi011/chop/internal/git"
	"github.com/raphi011/chop/internal/log"
)

// DefaultBranchPrefix prefixes generated working branch names.
const DefaultBranchPrefix = "batch"

// Options configure plan building.
type Options struct {
	// Rules are the classification catalogues, including any caller-supplied
	// exclusion patterns.
	Rules classify.Rules
	// Target is the branch the working branch merges into.
	Target string
	// BranchPrefix prefixes the generated working branch name. Defaults to
	// DefaultBranchPrefix.
	BranchPrefix string
	// Branch overrides the generated working branch name entirely.
	Branch string
	// Now supplies the timestamp for generated branch names. Defaults to
	// time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Build collects the pending changes of the repository at dir and assembles a
// plan. It never mutates the repository. Returns ErrEmptyChangeset when the
// working tree is clean.
func Build(ctx context.Context, dir string, opts Options) (*Plan, error) {
	changes, err := git.Collect(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, ErrEmptyChangeset
	}

	rules := opts.Rules

	// Fold locally built binaries into the exclusion set so they never form
	// a group of their own.
	paths := make([]string, len(changes))
	for i, c := range changes {
		paths[i] = c.Path
	}
	if binaries := classify.DetectBinaries(dir, paths); len(binaries) > 0 {
		log.FromContext(ctx).Debug("detected binary artifacts", "count", len(binaries))
		rules = rules.WithExcludes(binaries...)
	}

	// Partition: every change lands in exactly one group or in the excluded
	// list.
	var excluded []string
	byGroup := make(map[string]*Group)
	var order []string
	for _, c := range changes {
		if rules.Excluded(c.Path) {
			excluded = append(excluded, c.Path)
			continue
		}
		name := rules.Group(c.Path)
		g, ok := byGroup[name]
		if !ok {
			g = &Group{Name: name}
			byGroup[name] = g
			order = append(order, name)
		}
		g.Files = append(g.Files, c.Path)
		g.Statuses = append(g.Statuses, c.Status)
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, name := range order {
		g := byGroup[name]
		g.Message = synthesizeMessage(rules, g.Name, g.Files, g.Statuses)
		groups = append(groups, *g)
	}

	return &Plan{
		Branch:   workingBranch(opts),
		Target:   opts.Target,
		Groups:   groups,
		Excluded: excluded,
	}, nil
}

func workingBranch(opts Options) string {
	if opts.Branch != "" {
		return opts.Branch
	}
	prefix := opts.BranchPrefix
	if prefix == "" {
		prefix = DefaultBranchPrefix
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return prefix + "/" + now().Format("20060102-1504")
}
