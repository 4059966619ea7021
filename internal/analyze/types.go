package analyze

import (
	"selfref-generator/internal/schema"
)

// Config controls how packages are loaded and where output goes.
type Config struct {
	// Dir is the directory package patterns are resolved from.
	// Empty means the current directory.
	Dir string
	// OutDir overrides the output directory of every schema.
	// Empty means next to the file declaring the schema.
	OutDir string
	// ScopeMarker is the type parameter name standing for the instance scope.
	ScopeMarker string
}

// PackageInfo holds the schemas found in one loaded package.
type PackageInfo struct {
	Path    string           // Import path
	Name    string           // Package name
	Dir     string           // Directory of the package sources
	Schemas []*schema.Schema // Schemas in file, then declaration order
	// OwnFiles are the files of the package written by this generator.
	OwnFiles map[string]bool
}

// Result is the outcome of loading a set of packages.
type Result struct {
	Packages []*PackageInfo
}

// Schemas returns the schemas of all packages in load order.
func (r *Result) Schemas() []*schema.Schema {
	var out []*schema.Schema
	for _, p := range r.Packages {
		out = append(out, p.Schemas...)
	}

	return out
}

// Package returns the loaded package with the given import path, or nil.
func (r *Result) Package(path string) *PackageInfo {
	for _, p := range r.Packages {
		if p.Path == path {
			return p
		}
	}

	return nil
}
