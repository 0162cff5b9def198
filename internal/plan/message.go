package plan

import (
	"fmt"
	"path"
	"strings"

	"github.com/raphi011/chop/internal/classify"
)

// maxNamedFiles is how many basenames a description spells out before
// switching to a count suffix.
const maxNamedFiles = 4

// groupFacts are the aggregate properties of a group's files and statuses
// that type inference looks at.
type groupFacts struct {
	allTest     bool
	allDoc      bool
	allDeleted  bool
	allAdded    bool
	allCI       bool
	allManifest bool
	allConfig   bool
	anyAdded    bool
}

// typeRules map facts to a commit type, evaluated top to bottom, first match
// wins.
var typeRules = []struct {
	commitType string
	match      func(f groupFacts) bool
}{
	{"test", func(f groupFacts) bool { return f.allTest }},
	{"docs", func(f groupFacts) bool { return f.allDoc }},
	{"chore", func(f groupFacts) bool { return f.allDeleted }},
	{"feat", func(f groupFacts) bool { return f.allAdded }},
	{"ci", func(f groupFacts) bool { return f.allCI }},
	{"chore", func(f groupFacts) bool { return f.allManifest }},
	{"chore", func(f groupFacts) bool { return f.allConfig }},
	{"feat", func(f groupFacts) bool { return f.anyAdded }},
	{"refactor", func(f groupFacts) bool { return true }},
}

// synthesizeMessage derives the conventional commit message for a group.
// Identical inputs always yield a byte-identical message.
func synthesizeMessage(rules classify.Rules, group string, files, statuses []string) string {
	commitType := inferType(rules, files, statuses)
	scope := inferScope(group, files)
	desc := describe(rules, files, statuses)
	return fmt.Sprintf("%s(%s): %s", commitType, scope, desc)
}

func inferType(rules classify.Rules, files, statuses []string) string {
	facts := groupFacts{
		allTest:     true,
		allDoc:      true,
		allDeleted:  true,
		allAdded:    true,
		allCI:       true,
		allManifest: true,
		allConfig:   true,
	}
	for i, f := range files {
		facts.allTest = facts.allTest && rules.Test(f)
		facts.allDoc = facts.allDoc && rules.Doc(f)
		facts.allCI = facts.allCI && rules.CI(f)
		facts.allManifest = facts.allManifest && rules.Manifest(f)
		facts.allConfig = facts.allConfig && rules.ConfigFile(f)

		added := isAdded(statuses[i])
		facts.allAdded = facts.allAdded && added
		facts.anyAdded = facts.anyAdded || added
		facts.allDeleted = facts.allDeleted && isDeleted(statuses[i])
	}

	for _, rule := range typeRules {
		if rule.match(facts) {
			return rule.commitType
		}
	}
	// The catch-all rule always matches.
	return "refactor"
}

// inferScope narrows the scope to group/subdir when every file lives under
// the same second-level directory. Files directly inside the group directory
// keep the plain group scope.
func inferScope(group string, files []string) string {
	sub := ""
	for _, f := range files {
		parts := strings.Split(f, "/")
		if len(parts) < 3 {
			return group
		}
		if sub == "" {
			sub = parts[1]
		} else if parts[1] != sub {
			return group
		}
	}
	if sub == "" {
		return group
	}
	return group + "/" + sub
}

func describe(rules classify.Rules, files, statuses []string) string {
	var source, tests, docs []string
	for _, f := range files {
		switch {
		case rules.Test(f):
			tests = append(tests, f)
		case rules.Doc(f):
			docs = append(docs, f)
		default:
			source = append(source, f)
		}
	}

	primary := source
	if len(primary) == 0 {
		primary = tests
	}
	if len(primary) == 0 {
		primary = docs
	}

	var b strings.Builder
	b.WriteString(verbFor(statuses))
	b.WriteString(" ")
	b.WriteString(nameList(primary))

	// Secondary clauses for the categories the primary clause did not cover.
	if len(source) > 0 {
		if len(tests) > 0 {
			b.WriteString(", plus tests")
		}
		if len(docs) > 0 {
			b.WriteString(", plus docs")
		}
	} else if len(tests) > 0 && len(docs) > 0 {
		b.WriteString(", plus docs")
	}

	return b.String()
}

// verbFor picks the describing verb: a dedicated verb for uniformly added or
// deleted groups, "updated" otherwise.
func verbFor(statuses []string) string {
	allAdded, allDeleted := true, true
	for _, s := range statuses {
		allAdded = allAdded && isAdded(s)
		allDeleted = allDeleted && isDeleted(s)
	}
	switch {
	case len(statuses) > 0 && allAdded:
		return "added"
	case len(statuses) > 0 && allDeleted:
		return "removed"
	default:
		return "updated"
	}
}

// nameList renders deduplicated, extension-stripped basenames, naming at most
// maxNamedFiles and summarizing the rest as a count.
func nameList(files []string) string {
	seen := make(map[string]bool, len(files))
	var names []string
	for _, f := range files {
		name := stripExt(path.Base(f))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if len(names) <= maxNamedFiles {
		return strings.Join(names, ", ")
	}
	rest := len(names) - maxNamedFiles
	return fmt.Sprintf("%s and %d more", strings.Join(names[:maxNamedFiles], ", "), rest)
}

func stripExt(base string) string {
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

func isAdded(status string) bool {
	return status == "??" || status == "A"
}

func isDeleted(status string) bool {
	return status == "D"
}
