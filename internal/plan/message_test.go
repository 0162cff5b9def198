package plan

import (
	"testing"

	"github.com/raphi011/chop/internal/classify"
)

func synth(t *testing.T, group string, files, statuses []string) string {
	t.Helper()
	return synthesizeMessage(classify.DefaultRules(), group, files, statuses)
}

func TestSynthesizeMessage_ModifiedSource(t *testing.T) {
	t.Parallel()
	got := synth(t, "agent",
		[]string{"agent/foo.go", "agent/bar.go"},
		[]string{"M", "M"})
	want := "refactor(agent): updated foo, bar"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestSynthesizeMessage_AddedDoc(t *testing.T) {
	t.Parallel()
	got := synth(t, "docs",
		[]string{"docs/readme.md"},
		[]string{"??"})
	want := "docs(docs): added readme"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestInferType(t *testing.T) {
	t.Parallel()
	rules := classify.DefaultRules()

	tests := []struct {
		name     string
		files    []string
		statuses []string
		want     string
	}{
		{"all test", []string{"agent/a_test.go", "tests/b.py"}, []string{"M", "M"}, "test"},
		{"all doc", []string{"README.md", "docs/x.md"}, []string{"M", "A"}, "docs"},
		{"all deleted", []string{"agent/a.go", "agent/b.go"}, []string{"D", "D"}, "chore"},
		{"all added", []string{"agent/a.go", "agent/b.go"}, []string{"??", "A"}, "feat"},
		{"all ci modified", []string{".github/workflows/ci.yml", "Makefile"}, []string{"M", "M"}, "ci"},
		{"all manifests modified", []string{"go.mod", "go.sum"}, []string{"M", "M"}, "chore"},
		{"all config modified", []string{"config/app.yaml", "settings.toml"}, []string{"M", "M"}, "chore"},
		{"mixed with new file", []string{"agent/a.go", "agent/b.go"}, []string{"M", "??"}, "feat"},
		{"pure modification", []string{"agent/a.go"}, []string{"M"}, "refactor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := inferType(rules, tt.files, tt.statuses); got != tt.want {
				t.Errorf("inferType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInferType_AddedCIIsFeat(t *testing.T) {
	t.Parallel()
	// The all-added rule outranks the all-CI rule.
	got := inferType(classify.DefaultRules(), []string{".github/workflows/ci.yml"}, []string{"??"})
	if got != "feat" {
		t.Errorf("inferType(new CI file) = %q, want feat", got)
	}
}

func TestInferScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		group string
		files []string
		want  string
	}{
		{"shared subdir", "agent", []string{"agent/handoff/a.go", "agent/handoff/b.go"}, "agent/handoff"},
		{"different subdirs", "agent", []string{"agent/handoff/a.go", "agent/hitl/b.go"}, "agent"},
		{"files directly in group", "agent", []string{"agent/a.go", "agent/b.go"}, "agent"},
		{"mixed depth", "agent", []string{"agent/handoff/a.go", "agent/b.go"}, "agent"},
		{"root files", "root", []string{"main.go"}, "root"},
	}
	for _, tt := range tests {
		if got := inferScope(tt.group, tt.files); got != tt.want {
			t.Errorf("%s: inferScope = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDescribe_CountSuffix(t *testing.T) {
	t.Parallel()
	got := synth(t, "agent",
		[]string{"agent/a.go", "agent/b.go", "agent/c.go", "agent/d.go", "agent/e.go", "agent/f.go"},
		[]string{"M", "M", "M", "M", "M", "M"})
	want := "refactor(agent): updated a, b, c, d and 2 more"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDescribe_DedupPreservesOrder(t *testing.T) {
	t.Parallel()
	// Same basename in two directories collapses to one entry.
	got := synth(t, "agent",
		[]string{"agent/x/util.go", "agent/y/util.go", "agent/z/core.go"},
		[]string{"M", "M", "M"})
	want := "refactor(agent): updated util, core"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDescribe_SecondaryClauses(t *testing.T) {
	t.Parallel()
	got := synth(t, "agent",
		[]string{"agent/core.go", "agent/core_test.go", "agent/README.md"},
		[]string{"M", "M", "M"})
	want := "refactor(agent): updated core, plus tests, plus docs"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDescribe_RemovedVerb(t *testing.T) {
	t.Parallel()
	got := synth(t, "agent", []string{"agent/old.go"}, []string{"D"})
	want := "chore(agent): removed old"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestSynthesizeMessage_Deterministic(t *testing.T) {
	t.Parallel()
	files := []string{"agent/a.go", "agent/b_test.go", "agent/notes.md"}
	statuses := []string{"M", "??", "A"}
	first := synth(t, "agent", files, statuses)
	for i := 0; i < 5; i++ {
		if got := synth(t, "agent", files, statuses); got != first {
			t.Fatalf("message changed between runs: %q then %q", first, got)
		}
	}
}

func TestStripExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{"foo.go", "foo"},
		{"README.md", "README"},
		{"archive.tar.gz", "archive.tar"},
		{".gitignore", ".gitignore"},
		{"Makefile", "Makefile"},
	}
	for _, tt := range tests {
		if got := stripExt(tt.base); got != tt.want {
			t.Errorf("stripExt(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
