// Package snapshot compares values against JSON snapshots stored next to the
// test file and reports the comparison as an assertion.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/google/go-cmp/cmp"
)

const (
	// SnapshotDir is the directory name for storing snapshots
	SnapshotDir = "__snapshots__"
	// SnapshotExt is the file extension for snapshot files
	SnapshotExt = ".snap.json"
)

// Manager handles snapshot storage and comparison. It is safe for concurrent
// use.
type Manager struct {
	updateMode bool

	mu    sync.Mutex
	files map[string]map[string]any // snapshot file -> {key -> value}
}

// NewManager creates a snapshot manager. In update mode missing or
// mismatching snapshots are written instead of failing.
func NewManager(updateMode bool) *Manager {
	return &Manager{
		updateMode: updateMode,
		files:      make(map[string]map[string]any),
	}
}

// Match compares actual with the snapshot stored under key for testFile.
// The assertion fails with expected, actual and diff clues on a mismatch and
// is errored when the snapshot file cannot be read or written.
func (m *Manager) Match(testFile string, at *assertion.Location, key string, actual any) *assertion.Assertion {
	name := fmt.Sprintf("snapshot %q matches", key)
	start := func() *assertion.Asserting {
		b := assertion.That(name)
		if at != nil {
			b.At(at.File, at.Line)
		}
		return b
	}

	got, err := normalize(actual)
	if err != nil {
		return start().Errored(fmt.Errorf("value is not JSON serializable: %w", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path := FilePath(testFile)
	snapshots, err := m.load(path)
	if err != nil {
		return start().Errored(fmt.Errorf("failed to load snapshots: %w", err))
	}

	expected, exists := snapshots[key]
	switch {
	case exists && cmp.Equal(expected, got):
		return start().IsTrue(true)
	case m.updateMode:
		snapshots[key] = got
		if err := m.save(path, snapshots); err != nil {
			return start().Errored(fmt.Errorf("failed to save snapshot: %w", err))
		}
		return start().IsTrue(true)
	case !exists:
		return start().
			WithClue(got, "actual").
			WithClue(path, "snapshot file").
			IsTrue(false).
			WithClue("snapshot does not exist (set CLUEASSERT_UPDATE_SNAPSHOTS=1 to create it)", "hint")
	}

	return start().
		WithClue(expected, "expected").
		WithClue(got, "actual").
		IsTrue(false).
		WithClue(strings.TrimSpace(cmp.Diff(expected, got)), "diff")
}

// FilePath returns the snapshot file used for testFile.
func FilePath(testFile string) string {
	dir := filepath.Dir(testFile)
	base := filepath.Base(testFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, SnapshotDir, name+SnapshotExt)
}

// normalize round-trips v through JSON so values compare the way they are
// stored (numbers as float64, structs as maps).
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) load(path string) (map[string]any, error) {
	if cached, ok := m.files[path]; ok {
		return cached, nil
	}

	snapshots := make(map[string]any)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.files[path] = snapshots
			return snapshots, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.files[path] = snapshots
	return snapshots, nil
}

func (m *Manager) save(path string, snapshots map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return err
	}

	m.files[path] = snapshots
	return os.WriteFile(path, data, 0644)
}
