package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// ExportFile writes the whole mapping to path as indented JSON. The file
// is replaced atomically so a reader never sees a partial export.
func ExportFile(st Interface, path string) error {
	b, err := json.MarshalIndent(st.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	b = append(b, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ImportFile merges the JSON object in path into st. Keys already in st
// but absent from the file are kept.
func ImportFile(st Interface, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	values, err := DecodeObject(b)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := st.Merge(values); err != nil {
		return 0, err
	}
	return len(values), nil
}

// DecodeObject parses a top-level JSON object into its raw members.
func DecodeObject(b []byte) (map[string]json.RawMessage, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if values == nil {
		return nil, fmt.Errorf("invalid JSON object: null")
	}
	return values, nil
}
