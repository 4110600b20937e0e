// Package state persists the small client-local state that survives
// restarts, currently the "wallet previously connected" flag that gates
// automatic reconnect on startup.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const stateFileName = "state.toml"

type persisted struct {
	WalletConnected bool `toml:"wallet_connected"`
}

// File is a TOML-file backed state store under the client home directory.
type File struct {
	path string
}

// NewFile creates a store at <homeDir>/state.toml.
func NewFile(homeDir string) *File {
	return &File{path: filepath.Join(homeDir, stateFileName)}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// WalletConnected reads the persisted flag. A missing state file reads
// as false.
func (f *File) WalletConnected() (bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read state file: %w", err)
	}
	var p persisted
	if err := toml.Unmarshal(data, &p); err != nil {
		return false, fmt.Errorf("parse state file: %w", err)
	}
	return p.WalletConnected, nil
}

// SetWalletConnected writes the persisted flag, creating the home
// directory if needed.
func (f *File) SetWalletConnected(v bool) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := toml.Marshal(persisted{WalletConnected: v})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Memory is an in-process store used by tests.
type Memory struct {
	Connected bool
}

func (m *Memory) WalletConnected() (bool, error)  { return m.Connected, nil }
func (m *Memory) SetWalletConnected(v bool) error { m.Connected = v; return nil }
