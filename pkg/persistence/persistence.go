package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExists is returned when the backing file has never been written.
var ErrNotExists = fmt.Errorf("persistence data not exists")

// WriteJSON writes indented JSON atomically via tmp file + rename, creating
// parent directories as needed.
func WriteJSON(path string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadJSON reads a JSON document into data. Returns ErrNotExists when the
// file is missing or empty.
func ReadJSON(path string, data interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExists
		}
		return err
	}
	if len(b) == 0 {
		return ErrNotExists
	}
	return json.Unmarshal(b, data)
}
