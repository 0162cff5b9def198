//go:build integration

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/chop/internal/plan"
)

// TestPlan_ShowsGroups tests the plan command against a dirty repo.
//
// Scenario: User runs `chop plan` with changes in two directories
// Expected: Plan table lists one group per directory, repo is untouched
func TestPlan_ShowsGroups(t *testing.T) {
	// Not parallel - modifies package globals

	repoPath := setupTestRepo(t)
	setupCommandState(t, repoPath)

	writeRepoFile(t, repoPath, "agent/foo.go", "package agent\n")
	writeRepoFile(t, repoPath, "docs/guide.md", "# guide\n")

	ctx, buf := testContext(t)
	cmd := newPlanCmd()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"agent", "docs", "GROUP"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// The repository must be untouched.
	status := runGit(t, repoPath, "status", "--porcelain", "--untracked-files=all")
	if !strings.Contains(status, "agent/foo.go") {
		t.Errorf("working tree changed:\n%s", status)
	}
	branch := strings.TrimSpace(runGit(t, repoPath, "branch", "--show-current"))
	if branch != "main" {
		t.Errorf("branch = %q, want main", branch)
	}
}

// TestPlan_SaveAndLoad tests `chop plan -o` round-tripping through a file.
func TestPlan_SaveAndLoad(t *testing.T) {
	// Not parallel - modifies package globals

	repoPath := setupTestRepo(t)
	setupCommandState(t, repoPath)

	writeRepoFile(t, repoPath, "agent/foo.go", "package agent\n")

	planFile := filepath.Join(t.TempDir(), "plan.json")

	ctx, _ := testContext(t)
	cmd := newPlanCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"-o", planFile})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	p, err := plan.Load(planFile)
	if err != nil {
		t.Fatalf("load saved plan: %v", err)
	}
	if len(p.Groups) != 1 || p.Groups[0].Name != "agent" {
		t.Errorf("groups = %v, want [agent]", p.GroupNames())
	}
	if p.Target != "main" {
		t.Errorf("target = %q, want main", p.Target)
	}
}

// TestPlan_CleanRepo tests `chop plan` on a clean working tree.
func TestPlan_CleanRepo(t *testing.T) {
	// Not parallel - modifies package globals

	repoPath := setupTestRepo(t)
	setupCommandState(t, repoPath)

	ctx, buf := testContext(t)
	cmd := newPlanCmd()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("plan command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No pending changes") {
		t.Errorf("output = %q, want no-pending-changes notice", buf.String())
	}
}

// TestPlan_ExcludeFlag tests that -e patterns drop files from the plan.
func TestPlan_ExcludeFlag(t *testing.T) {
	// Not parallel - modifies package globals

	repoPath := setupTestRepo(t)
	setupCommandState(t, repoPath)

	writeRepoFile(t, repoPath, "agent/foo.go", "package agent\n")
	writeRepoFile(t, repoPath, "prod.env", "KEY=1\n")

	planFile := filepath.Join(t.TempDir(), "plan.json")

	ctx, _ := testContext(t)
	cmd := newPlanCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"-e", "*.env", "-o", planFile})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	p, err := plan.Load(planFile)
	if err != nil {
		t.Fatalf("load saved plan: %v", err)
	}
	if len(p.Excluded) != 1 || p.Excluded[0] != "prod.env" {
		t.Errorf("excluded = %v, want [prod.env]", p.Excluded)
	}
	if len(p.Groups) != 1 || p.Groups[0].Name != "agent" {
		t.Errorf("groups = %v, want [agent]", p.GroupNames())
	}
}
