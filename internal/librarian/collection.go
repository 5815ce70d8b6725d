package librarian

import (
	"fmt"
	"regexp"

	"github.com/quietriver/librarian/internal/config"
)

// Collection names become file names and vector store collection names,
// so they stay on a conservative alphabet.
var collectionNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Manager tracks the current collection name across process restarts.
// It only touches the persisted state document; swapping the live store
// handles is the Librarian's job, so both always move together.
type Manager struct {
	statePath string
}

// NewManager creates a manager persisting to statePath.
func NewManager(statePath string) *Manager {
	return &Manager{statePath: statePath}
}

// CurrentName returns the persisted collection name, or the default when
// nothing has been persisted yet.
func (m *Manager) CurrentName() string {
	return config.LoadState(m.statePath).CollectionName
}

// SetCurrent validates and persists a new current collection name.
func (m *Manager) SetCurrent(name string) error {
	if !collectionNameRe.MatchString(name) {
		return fmt.Errorf("invalid collection name %q: use letters, digits, '.', '_' or '-'", name)
	}
	return config.SaveState(m.statePath, &config.State{CollectionName: name})
}

// Reset persists the default collection name.
func (m *Manager) Reset() error {
	return config.SaveState(m.statePath, &config.State{CollectionName: config.DefaultCollectionName})
}
