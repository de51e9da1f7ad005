package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlorenc/sldgrid/pkg/geom"
)

// positionsFile is the on-disk layout result consumed by the insert and
// check commands.
type positionsFile struct {
	Positions map[string]geom.Point `json:"positions"`
}

// writePositions writes a position map as indented JSON. Files are created
// with 0644 permissions.
func writePositions(path string, positions map[string]geom.Point) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(positionsFile{Positions: positions}); err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readPositions loads a position map written by writePositions.
func readPositions(path string) (map[string]geom.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc positionsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc.Positions, nil
}

// loadGeometry resolves the geometry config: defaults, or a TOML override
// file when given.
func loadGeometry(path string) (geom.Config, error) {
	if path == "" {
		return geom.DefaultConfig(), nil
	}
	return geom.LoadConfig(path)
}
