package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"selfref-generator/internal/common"
)

// File is the root of a YAML schema file.
type File struct {
	// Version of the schema file format.
	Version string `yaml:"version,omitempty"`
	// Package is the package name of the generated files.
	Package string `yaml:"package"`
	// PkgPath is the optional import path of that package.
	PkgPath string `yaml:"pkg_path,omitempty"`
	// Imports are added to every generated file.
	Imports []ImportDef `yaml:"imports,omitempty"`
	// Structs are the schemas.
	Structs []StructDef `yaml:"structs"`
}

// ImportDef is an import in a YAML schema file.
type ImportDef struct {
	Path  string `yaml:"path"`
	Alias string `yaml:"alias,omitempty"`
}

// StructDef is one schema entry.
type StructDef struct {
	Name        string         `yaml:"name"`
	Source      string         `yaml:"source,omitempty"`
	ScopeMarker string         `yaml:"scope_marker,omitempty"`
	TypeParams  []TypeParamDef `yaml:"type_params,omitempty"`
	Options     StringOrArray  `yaml:"options,omitempty"`
	Fields      []FieldDef     `yaml:"fields"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// TypeParamDef is a type parameter of a YAML schema.
type TypeParamDef struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint,omitempty"`
}

// FieldDef is one field of a YAML schema.
type FieldDef struct {
	Name    string        `yaml:"name"`
	Type    string        `yaml:"type"`
	Borrows StringOrArray `yaml:"borrows,omitempty"`

	Line          int `yaml:"-"`
	Column        int `yaml:"-"`
	BorrowsLine   int `yaml:"-"`
	BorrowsColumn int `yaml:"-"`
}

// UnmarshalYAML decodes a struct entry and records its position.
func (s *StructDef) UnmarshalYAML(node *yaml.Node) error {
	type plain StructDef

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*s = StructDef(p)
	s.Line, s.Column = node.Line, node.Column

	return nil
}

// UnmarshalYAML decodes a field entry and records the positions of the
// field and of its borrows value.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDef

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*f = FieldDef(p)
	f.Line, f.Column = node.Line, node.Column

	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "borrows" {
				f.BorrowsLine, f.BorrowsColumn = node.Content[i+1].Line, node.Content[i+1].Column
			}
		}
	}

	return nil
}

// StringOrArray accepts either a single string or an array of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if v, ok := common.First(s); ok && common.IsSingle(s) {
		return v, nil
	}

	return []string(s), nil
}

// Declaration joins the entries into one comma-separated declaration,
// so [mut a, b] and "mut a, b" read the same.
func (s StringOrArray) Declaration() string {
	if common.IsEmpty(s) {
		return ""
	}

	return strings.Join(s, ", ")
}
