package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCollectionName is used whenever no collection has been chosen.
const DefaultCollectionName = "library"

// State is the small persisted key-value document tracking the current
// collection. It is read on startup and rewritten on switch/drop.
type State struct {
	CollectionName string `yaml:"collection_name"`
}

// LoadState reads the state document from path. A missing or unreadable
// document yields the default state rather than an error.
func LoadState(path string) *State {
	state := &State{CollectionName: DefaultCollectionName}

	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}

	var loaded State
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return state
	}
	if name := strings.TrimSpace(loaded.CollectionName); name != "" {
		state.CollectionName = name
	}
	return state
}

// SaveState persists the state document to path. A blank collection name is
// normalized to the default before writing.
func SaveState(path string, state *State) error {
	name := strings.TrimSpace(state.CollectionName)
	if name == "" {
		name = DefaultCollectionName
	}

	data, err := yaml.Marshal(&State{CollectionName: name})
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
