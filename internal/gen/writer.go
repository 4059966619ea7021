package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every generated file to its own directory, creating
// directories as needed.
func WriteFiles(files []GeneratedFile) error {
	for _, file := range files {
		if _, err := WriteFile(file); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile writes one generated file. It reports false without touching
// the file when the content on disk is already identical.
func WriteFile(file GeneratedFile) (bool, error) {
	path := file.Path()

	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, file.Content) {
		return false, nil
	}

	if file.Dir != "" {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return false, fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, file.Content, filePerm); err != nil {
		return false, fmt.Errorf("writing file %s: %w", filepath.Base(path), err)
	}

	return true, nil
}

// Stale reports whether the file on disk differs from the generated content.
// A missing file is stale.
func Stale(file GeneratedFile) (bool, error) {
	existing, err := os.ReadFile(file.Path())
	if os.IsNotExist(err) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading %s: %w", file.Path(), err)
	}

	return !bytes.Equal(existing, file.Content), nil
}
