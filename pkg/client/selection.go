package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SelectionStore remembers the active chat between runs
type SelectionStore interface {
	LoadSelection() (string, error)
	SaveSelection(chatID string) error
}

type selectionFile struct {
	SelectedChatID string `yaml:"selectedChatId"`
}

// FileSelectionStore keeps the selection in a small YAML file
type FileSelectionStore struct {
	path string
}

// NewFileSelectionStore stores the selection at path
func NewFileSelectionStore(path string) *FileSelectionStore {
	return &FileSelectionStore{path: path}
}

// DefaultSelectionPath returns <user config dir>/deepchat/session.yaml
func DefaultSelectionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "deepchat", "session.yaml"), nil
}

// LoadSelection returns the remembered chat id, or "" when nothing is stored
func (s *FileSelectionStore) LoadSelection() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read selection: %w", err)
	}

	var f selectionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("parse selection %s: %w", s.path, err)
	}
	return f.SelectedChatID, nil
}

// SaveSelection writes the chat id, replacing the file atomically
func (s *FileSelectionStore) SaveSelection(chatID string) error {
	data, err := yaml.Marshal(selectionFile{SelectedChatID: chatID})
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create selection dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace selection: %w", err)
	}
	return nil
}
