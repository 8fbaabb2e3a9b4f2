package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileStatePersistence stores each named snapshot as a JSON file in a
// directory, one file per storage name. Writes go through a temp file and
// rename so a crash never leaves a half-written snapshot behind.
type fileStatePersistence struct {
	dir string
}

// NewFileStatePersistence creates a file-backed StatePersistence rooted at
// dir. The directory is created on first use if missing.
func NewFileStatePersistence(dir string) StatePersistence {
	return &fileStatePersistence{dir: dir}
}

func (p *fileStatePersistence) path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

func (p *fileStatePersistence) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(p.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file %s: %w", p.path(name), err)
	}
	return data, nil
}

func (p *fileStatePersistence) Save(name string, data []byte) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", p.dir, err)
	}

	tmp, err := os.CreateTemp(p.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, p.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file %s: %w", p.path(name), err)
	}
	return nil
}
