package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a schema from path, choosing the parser by extension:
// .cue files go through LoadCUE, .yaml and .yml through LoadYAML.
func LoadFile(path string) (*Schema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		return LoadCUE(data)
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	default:
		return nil, fmt.Errorf("unsupported schema file %q: want .cue, .yaml or .yml", path)
	}
}
