// Package classify decides how changed paths are excluded, categorized and
// grouped. All pattern catalogues are carried in a Rules value supplied by the
// caller; nothing in this package reads process-wide state.
package classify

import (
	"path"
	"strings"
)

// Rules holds the pattern catalogues the predicates evaluate against.
// Construct with DefaultRules and adjust fields as needed.
type Rules struct {
	// Excludes are exclusion patterns. A pattern ending in "/" excludes a
	// directory (prefix or interior segment match); other patterns match by
	// glob against the full path or its basename, or by exact equality.
	Excludes []string

	// Manifests are dependency manifest basenames, matched exactly or by glob.
	Manifests []string

	// CIPrefixes are path prefixes marking CI configuration trees.
	CIPrefixes []string
	// CIFiles are basename prefixes marking CI/build orchestration files.
	CIFiles []string

	// TestDirs are directory segments marking test trees.
	TestDirs []string

	// DocExts are documentation file extensions, DocDirs top-level doc trees.
	DocExts []string
	DocDirs []string

	// ConfigExts are suffixes treated as configuration for message typing.
	ConfigExts []string
}

// DefaultRules returns the built-in pattern catalogues.
func DefaultRules() Rules {
	return Rules{
		Excludes: []string{
			"*.exe", "*.dll", "*.so", "*.dylib",
			"vendor/",
		},
		Manifests: []string{
			"go.mod", "go.sum", "go.work", "go.work.sum",
			"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
			"Cargo.toml", "Cargo.lock",
			"requirements*.txt", "Pipfile", "Pipfile.lock", "pyproject.toml", "poetry.lock", "uv.lock",
			"Gemfile", "Gemfile.lock",
			"pom.xml", "build.gradle", "build.gradle.kts",
			"composer.json", "composer.lock",
			"*.csproj",
		},
		CIPrefixes: []string{
			".github/", ".gitlab/", ".circleci/", ".buildkite/",
		},
		CIFiles: []string{
			".gitlab-ci.yml", "Jenkinsfile", ".travis.yml", "azure-pipelines",
			".drone.yml", "Makefile", "Dockerfile", "docker-compose", "Taskfile",
		},
		TestDirs: []string{
			"test", "tests", "testdata", "__tests__", "spec",
		},
		DocExts: []string{".md", ".rst", ".adoc", ".txt"},
		DocDirs: []string{"docs", "doc"},
		ConfigExts: []string{
			".yml", ".yaml", ".json", ".toml", ".ini", ".env",
			".gitignore", ".gitattributes", ".editorconfig",
		},
	}
}

// WithExcludes returns a copy of the rules with extra exclusion patterns
// appended. The receiver is not modified.
func (r Rules) WithExcludes(patterns ...string) Rules {
	excludes := make([]string, 0, len(r.Excludes)+len(patterns))
	excludes = append(excludes, r.Excludes...)
	excludes = append(excludes, patterns...)
	r.Excludes = excludes
	return r
}

// Excluded reports whether the path matches an exclusion pattern.
func (r Rules) Excluded(p string) bool {
	base := path.Base(p)
	for _, pattern := range r.Excludes {
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(p, pattern) || strings.Contains(p, "/"+pattern) {
				return true
			}
			continue
		}
		if globMatch(pattern, p) || globMatch(pattern, base) || p == pattern {
			return true
		}
	}
	return false
}

// Manifest reports whether the path names a dependency manifest.
func (r Rules) Manifest(p string) bool {
	base := path.Base(p)
	for _, pattern := range r.Manifests {
		if base == pattern || globMatch(pattern, base) {
			return true
		}
	}
	return false
}

// CI reports whether the path is CI or build orchestration configuration.
func (r Rules) CI(p string) bool {
	for _, prefix := range r.CIPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	base := path.Base(p)
	for _, name := range r.CIFiles {
		if strings.HasPrefix(base, name) {
			return true
		}
	}
	return false
}

// Test reports whether the path looks like a test file: conventional
// test-suffix/prefix naming or a path through a recognized test directory.
func (r Rules) Test(p string) bool {
	base := path.Base(p)
	if strings.HasPrefix(base, "test_") {
		return true
	}
	for _, marker := range []string{"_test.", ".test.", ".spec."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	dir := path.Dir(p)
	if dir != "." {
		for _, seg := range strings.Split(dir, "/") {
			for _, td := range r.TestDirs {
				if seg == td {
					return true
				}
			}
		}
	}
	return false
}

// Doc reports whether the path is documentation.
func (r Rules) Doc(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, de := range r.DocExts {
		if ext == de {
			return true
		}
	}
	first, _, _ := strings.Cut(p, "/")
	for _, dd := range r.DocDirs {
		if first == dd {
			return true
		}
	}
	return false
}

// ConfigFile reports whether the path has a recognized configuration suffix.
func (r Rules) ConfigFile(p string) bool {
	for _, suffix := range r.ConfigExts {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// groupRule maps a predicate to the group it assigns. Rules are evaluated in
// order, first match wins.
type groupRule struct {
	match func(r Rules, p string) (string, bool)
}

var groupRules = []groupRule{
	// Dependency manifests collapse into one group regardless of location.
	{match: func(r Rules, p string) (string, bool) {
		if r.Manifest(p) {
			return "deps", true
		}
		return "", false
	}},
	// CI and build orchestration files likewise.
	{match: func(r Rules, p string) (string, bool) {
		if r.CI(p) {
			return "ci", true
		}
		return "", false
	}},
	// Hidden top-level directories group under their name without the dot.
	{match: func(r Rules, p string) (string, bool) {
		first, rest, found := strings.Cut(p, "/")
		if found && rest != "" && len(first) > 1 && first[0] == '.' {
			return first[1:], true
		}
		return "", false
	}},
	// Root-level files share one group.
	{match: func(r Rules, p string) (string, bool) {
		if !strings.Contains(p, "/") {
			return "root", true
		}
		return "", false
	}},
	// Everything else groups by its top-level directory.
	{match: func(r Rules, p string) (string, bool) {
		first, _, _ := strings.Cut(p, "/")
		return first, true
	}},
}

// Group assigns the path to a commit group.
func (r Rules) Group(p string) string {
	for _, gr := range groupRules {
		if name, ok := gr.match(r, p); ok {
			return name
		}
	}
	// The last rule always matches.
	return "root"
}

// globMatch matches pattern against name, treating pattern errors as no match.
func globMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
