package plan

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/raphi011/chop/internal/classify"
)

func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test User")
	run("config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial commit")

	return dir
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 12, 34, 0, 0, time.UTC)
}

func TestBuild(t *testing.T) {
	dir := setupTestRepo(t)

	writeFile(t, dir, "agent/foo.go", "package agent\n")
	writeFile(t, dir, "agent/bar.go", "package agent\n")
	writeFile(t, dir, "docs/guide.md", "# guide\n")
	writeFile(t, dir, ".github/workflows/ci.yml", "on: push\n")
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "secrets.env", "KEY=1\n")

	opts := Options{
		Rules:  classify.DefaultRules().WithExcludes("secrets.env"),
		Target: "main",
		Now:    fixedClock,
	}
	p, err := Build(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if p.Branch != "batch/20260830-1234" {
		t.Errorf("branch = %q, want batch/20260830-1234", p.Branch)
	}
	if p.Target != "main" {
		t.Errorf("target = %q, want main", p.Target)
	}

	wantGroups := []string{"agent", "ci", "docs", "root"}
	names := p.GroupNames()
	if len(names) != len(wantGroups) {
		t.Fatalf("groups = %v, want %v", names, wantGroups)
	}
	for i, want := range wantGroups {
		if names[i] != want {
			t.Errorf("group %d = %q, want %q", i, names[i], want)
		}
	}

	if len(p.Excluded) != 1 || p.Excluded[0] != "secrets.env" {
		t.Errorf("excluded = %v, want [secrets.env]", p.Excluded)
	}

	// Every collected change lands in exactly one group or the excluded list.
	if got, want := p.TotalFiles()+len(p.Excluded), 6; got != want {
		t.Errorf("partitioned %d changes, want %d", got, want)
	}

	for _, g := range p.Groups {
		if g.Message == "" {
			t.Errorf("group %q has no message", g.Name)
		}
	}
}

func TestBuildCleanTree(t *testing.T) {
	dir := setupTestRepo(t)

	_, err := Build(context.Background(), dir, Options{
		Rules:  classify.DefaultRules(),
		Target: "main",
	})
	if !errors.Is(err, ErrEmptyChangeset) {
		t.Fatalf("Build = %v, want ErrEmptyChangeset", err)
	}
}

func TestBuildAllExcluded(t *testing.T) {
	dir := setupTestRepo(t)

	writeFile(t, dir, "scratch.log", "noise\n")

	p, err := Build(context.Background(), dir, Options{
		Rules:  classify.DefaultRules().WithExcludes("*.log"),
		Target: "main",
		Now:    fixedClock,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Groups) != 0 {
		t.Errorf("groups = %v, want none", p.GroupNames())
	}
	if len(p.Excluded) != 1 || p.Excluded[0] != "scratch.log" {
		t.Errorf("excluded = %v, want [scratch.log]", p.Excluded)
	}
}

func TestBuildExcludesBinaries(t *testing.T) {
	dir := setupTestRepo(t)

	elf := append([]byte{0x7f, 'E', 'L', 'F'}, make([]byte, 16)...)
	if err := os.WriteFile(filepath.Join(dir, "chop"), elf, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "agent/foo.go", "package agent\n")

	p, err := Build(context.Background(), dir, Options{
		Rules:  classify.DefaultRules(),
		Target: "main",
		Now:    fixedClock,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(p.Excluded) != 1 || p.Excluded[0] != "chop" {
		t.Errorf("excluded = %v, want [chop]", p.Excluded)
	}
	if names := p.GroupNames(); len(names) != 1 || names[0] != "agent" {
		t.Errorf("groups = %v, want [agent]", names)
	}
}

func TestBuildBranchOverride(t *testing.T) {
	dir := setupTestRepo(t)
	writeFile(t, dir, "main.go", "package main\n")

	p, err := Build(context.Background(), dir, Options{
		Rules:  classify.DefaultRules(),
		Target: "main",
		Branch: "wip/split",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Branch != "wip/split" {
		t.Errorf("branch = %q, want wip/split", p.Branch)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	dir := setupTestRepo(t)

	writeFile(t, dir, "zeta/a.go", "package zeta\n")
	writeFile(t, dir, "alpha/a.go", "package alpha\n")
	writeFile(t, dir, "mid/a.go", "package mid\n")

	var first []string
	for i := 0; i < 3; i++ {
		p, err := Build(context.Background(), dir, Options{
			Rules:  classify.DefaultRules(),
			Target: "main",
			Now:    fixedClock,
		})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		names := p.GroupNames()
		if i == 0 {
			first = names
			if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
				t.Fatalf("groups = %v, want [alpha mid zeta]", names)
			}
			continue
		}
		for j := range names {
			if names[j] != first[j] {
				t.Fatalf("run %d groups = %v, first run %v", i, names, first)
			}
		}
	}
}
