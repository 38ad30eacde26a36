package spamicity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// snapshot is the serialized form of a table
type snapshot struct {
	Version int                `msgpack:"version"`
	Terms   map[string]float64 `msgpack:"terms"`
	Info    TableInfo          `msgpack:"info"`
}

// Save writes the table to w
func (t *Table) Save(w io.Writer) error {
	snap := snapshot{Version: snapshotVersion, Terms: t.Values(), Info: t.Info()}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("can't encode spamicity table: %w", err)
	}
	return nil
}

// LoadTable reads a table written by Save
func LoadTable(r io.Reader) (*Table, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("can't decode spamicity table: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported spamicity table version %d", snap.Version)
	}
	return NewTable(snap.Terms, snap.Info)
}

// SaveFile writes the table to a temporary file next to path and renames it,
// so a reader never sees a partially written model
func (t *Table) SaveFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("can't create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = t.Save(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("can't sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("can't rename %s to %s: %w", tmp.Name(), path, err)
	}
	return nil
}

// LoadTableFile reads a table saved with SaveFile
func LoadTableFile(path string) (*Table, error) {
	fh, err := os.Open(path) //nolint:gosec // path is from the configuration
	if err != nil {
		return nil, fmt.Errorf("can't open model %s: %w", path, err)
	}
	defer fh.Close()
	return LoadTable(fh)
}
