// Package plan builds and represents batch-commit plans: the partition of
// pending working-tree changes into named groups, one synthesized commit
// message per group, and the branch metadata needed to apply them.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyChangeset signals a clean working tree. Callers treat it as a
// benign no-op, not a failure.
var ErrEmptyChangeset = errors.New("no pending changes")

// FileError indicates a plan file could not be read or decoded.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("plan file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Group is one future commit: the ordered files it stages and the message it
// is committed with. Statuses align with Files by index.
type Group struct {
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Files    []string `json:"files"`
	Statuses []string `json:"statuses"`
}

// Plan is the full batch-commit plan. Groups are ordered lexicographically by
// name; Excluded lists the paths that will not be committed. Plans are
// immutable once built.
type Plan struct {
	Branch   string   `json:"branch"`
	Target   string   `json:"target"`
	Groups   []Group  `json:"groups"`
	Excluded []string `json:"excluded"`
}

// TotalFiles returns the number of files across all groups.
func (p *Plan) TotalFiles() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Files)
	}
	return n
}

// GroupNames returns the group names in plan order.
func (p *Plan) GroupNames() []string {
	names := make([]string, len(p.Groups))
	for i, g := range p.Groups {
		names[i] = g.Name
	}
	return names
}

// Save atomically writes the plan as indented JSON: temp file in the target
// directory, then rename.
func (p *Plan) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

// Load reads a previously saved plan. A missing or malformed file yields a
// *FileError before any repository access happens.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if err := p.validate(); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return &p, nil
}

func (p *Plan) validate() error {
	if p.Branch == "" {
		return errors.New("missing branch")
	}
	if p.Target == "" {
		return errors.New("missing target")
	}
	seen := make(map[string]bool, len(p.Groups))
	for _, g := range p.Groups {
		if g.Name == "" {
			return errors.New("group with empty name")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group %q", g.Name)
		}
		seen[g.Name] = true
		if len(g.Files) != len(g.Statuses) {
			return fmt.Errorf("group %q: %d files but %d statuses", g.Name, len(g.Files), len(g.Statuses))
		}
	}
	return nil
}
