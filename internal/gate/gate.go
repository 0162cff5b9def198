// Package gate decides when a task workflow is ready for batch committing.
// Workflow state lives in a dot-directory at the repository root: a pointer
// file naming the active task, a task state file with the phase progress, and
// a single-use marker that prevents finalizing the same task twice.
package gate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the workflow state directory relative to the repository root.
const DefaultDir = ".trellis"

const (
	currentTaskFile = ".current-task"
	taskStateFile   = "task.json"
	markerFile      = ".finalize-state.json"
)

// ErrNoTask signals that no task is currently active.
var ErrNoTask = errors.New("no active task")

// Action is one planned workflow step with its phase number.
type Action struct {
	Action string `json:"action"`
	Phase  int    `json:"phase"`
}

// TaskState is the progress record of a task.
type TaskState struct {
	CurrentPhase int      `json:"current_phase"`
	Status       string   `json:"status"`
	NextAction   []Action `json:"next_action"`
}

// PipelineComplete reports whether every phase-bound action has run. The
// create-pr action is a follow-up script, not a phase, so it does not count
// toward the maximum.
func (t *TaskState) PipelineComplete() bool {
	maxPhase := 0
	for _, a := range t.NextAction {
		if a.Action != "create-pr" && a.Phase > maxPhase {
			maxPhase = a.Phase
		}
	}
	return maxPhase > 0 && t.CurrentPhase >= maxPhase
}

// Gate reads and updates the workflow state of one repository.
type Gate struct {
	// Root is the repository root.
	Root string
	// Dir is the workflow state directory name. Empty means DefaultDir.
	Dir string
}

func (g *Gate) dir() string {
	if g.Dir != "" {
		return g.Dir
	}
	return DefaultDir
}

func (g *Gate) statePath(name string) string {
	return filepath.Join(g.Root, g.dir(), name)
}

// CurrentTask returns the directory of the active task, relative to the
// repository root. Returns ErrNoTask when the pointer file is missing or
// empty.
func (g *Gate) CurrentTask() (string, error) {
	data, err := os.ReadFile(g.statePath(currentTaskFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoTask
	}
	if err != nil {
		return "", err
	}
	task := strings.TrimSpace(string(data))
	if task == "" {
		return "", ErrNoTask
	}
	return task, nil
}

// LoadTask reads the state of the task at taskDir.
func (g *Gate) LoadTask(taskDir string) (*TaskState, error) {
	path := filepath.Join(g.Root, taskDir, taskStateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task state: %w", err)
	}
	var state TaskState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode task state %s: %w", path, err)
	}
	return &state, nil
}

// marker is the persisted single-use record.
type marker struct {
	Task      string `json:"task"`
	Finalized bool   `json:"finalized"`
}

// Finalized reports whether the task was already finalized. A missing or
// unreadable marker counts as not finalized.
func (g *Gate) Finalized(taskDir string) bool {
	data, err := os.ReadFile(g.statePath(markerFile))
	if err != nil {
		return false
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	return m.Task == taskDir && m.Finalized
}

// MarkFinalized records that the task was finalized, so a later run skips it.
// Concurrent runs serialize on a file lock beside the marker.
func (g *Gate) MarkFinalized(taskDir string) error {
	if err := os.MkdirAll(filepath.Dir(g.statePath(markerFile)), 0o755); err != nil {
		return err
	}

	lock := NewFileLock(g.statePath(markerFile) + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock marker: %w", err)
	}
	defer lock.Unlock()

	data, err := json.Marshal(marker{Task: taskDir, Finalized: true})
	if err != nil {
		return err
	}

	path := g.statePath(markerFile)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

// FindRoot walks up from start until it finds a directory containing .git.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no repository found above %s", start)
		}
		dir = parent
	}
}
