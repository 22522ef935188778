package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"frbus-sweep/internal/scenario"
	"frbus-sweep/internal/sweep"
)

// Artifact file names inside the output directory.
const (
	FullFile   = "frbus_simulation_data.json"
	LookupFile = "frbus_simulation_lookup.json"
	CSVFile    = "frbus_simulation_lookup.csv"
	IndexFile  = "frbus_simulation_lookup.db"
)

// LookupTable is the root of the lookup artifact.
type LookupTable struct {
	Simulations []scenario.LookupRow `json:"simulations"`
}

// WriteFull writes the complete sweep output to path.
func WriteFull(path string, out *sweep.Output) error {
	if out == nil {
		return fmt.Errorf("sweep output is nil")
	}
	return writeJSON(path, out)
}

// WriteLookup writes the lookup projection of out to path.
func WriteLookup(path string, out *sweep.Output) error {
	if out == nil {
		return fmt.Errorf("sweep output is nil")
	}
	return writeJSON(path, LookupTable{Simulations: out.Lookup()})
}

func LoadFull(path string) (*sweep.Output, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out sweep.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &out, nil
}

func LoadLookup(path string) (*LookupTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lt LookupTable
	if err := json.Unmarshal(raw, &lt); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &lt, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// writeFileAtomic writes via a temp file in the same directory and renames it
// into place, so readers never observe a partial artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
