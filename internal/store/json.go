package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tuibill/internal/model"
)

// JSON stores the log as one pretty-printed JSON document.
type JSON struct {
	path string
}

// NewJSON returns a JSON store for path. Nothing is touched until Load/Save.
func NewJSON(path string) *JSON {
	return &JSON{path: path}
}

// Path returns the file location.
func (s *JSON) Path() string {
	return s.path
}

// Load implements Gateway. Only a missing file counts as an empty log.
func (s *JSON) Load(_ context.Context) (model.Log, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLog(), nil
		}
		return model.Log{}, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}
	var log model.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return model.Log{}, fmt.Errorf("failed to decode store %s: %w", s.path, err)
	}
	return normalize(log), nil
}

// Save implements Gateway. The file is replaced atomically.
func (s *JSON) Save(_ context.Context, log model.Log) error {
	data, err := Encode(log)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".bills-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// Close implements Gateway.
func (s *JSON) Close() error {
	return nil
}

// Encode renders the log in the on-disk JSON format.
func Encode(log model.Log) ([]byte, error) {
	data, err := json.MarshalIndent(normalize(log), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode store: %w", err)
	}
	return append(data, '\n'), nil
}
