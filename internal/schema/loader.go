package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"selfref-generator/internal/diagnostic"
)

// CurrentVersion is the schema file format version written by Marshal.
const CurrentVersion = "1"

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	for i := range f.Structs {
		s := &f.Structs[i]
		if s.Source == "" {
			s.Source = s.Name
		}

		for j := range s.TypeParams {
			if s.TypeParams[j].Constraint == "" {
				s.TypeParams[j].Constraint = "any"
			}
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// LoadSchemas reads a YAML schema file and converts every entry into a Schema.
// Generated files go next to the schema file unless outDir is set.
func LoadSchemas(path, outDir, scopeMarker string) ([]*Schema, *diagnostic.Diagnostics, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(abs)
	}

	diags := Validate(f, abs)
	if diags.HasErrors() {
		return nil, diags, nil
	}

	return f.Schemas(abs, dir, scopeMarker), diags, nil
}
