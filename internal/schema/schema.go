package schema

import (
	"go/ast"
	"go/token"
	"go/types"
)

// DefaultScopeMarker is the type parameter name that stands for "the current instance".
const DefaultScopeMarker = "This"

// Schema is one annotated struct: the structured field sequence the engine analyzes.
type Schema struct {
	// Name of the generated aggregate type (e.g., "Document").
	Name string
	// Source is the schema's own name (the annotated Go type, or the YAML entry name).
	Source string
	// Package is the name of the package the generated file belongs to.
	Package string
	// PkgPath is the import path of that package (empty for YAML schemas without one).
	PkgPath string
	// Dir is the directory the generated file is written to.
	Dir string
	// File is the file the schema was declared in.
	File string
	// Pos is the position of the schema declaration.
	Pos token.Position
	// TypeParams are the declared type parameters, the scope marker included.
	TypeParams []TypeParam
	// ScopeMarker is the name of the type parameter that stands for the instance scope.
	ScopeMarker string
	// Fields in declaration order.
	Fields []Field
	// Options are the per-schema configuration flags.
	Options Options
	// Imports needed by the field types.
	Imports []Import
	// Scope is the package scope when type information is available.
	// Used to detect clashes between generated and existing declarations.
	Scope *types.Scope
	// Fset resolves positions of objects in Scope.
	Fset *token.FileSet
	// OwnFiles are files in the package written by this generator; declarations
	// in them do not count as clashes.
	OwnFiles map[string]bool
}

// TypeParam is one type parameter of the schema.
type TypeParam struct {
	Name       string
	Constraint ast.Expr
	Pos        token.Position
}

// Field is one declared field.
type Field struct {
	// Name is the Go field name. Empty for embedded fields.
	Name string
	// Type is the declared type expression.
	Type ast.Expr
	// GoType is the checked type, nil when the schema has no type information.
	GoType types.Type
	// Tokens are the raw tokens of the field's dependency declaration.
	Tokens []Token
	// Embedded is true for embedded (positional) fields, which are unsupported.
	Embedded bool
	// Pos is the position of the field declaration.
	Pos token.Position
}

// HasDependencies reports whether the field carries a dependency declaration.
func (f *Field) HasDependencies() bool {
	return len(f.Tokens) > 0
}

// Options are the configuration flags recognized by the engine.
type Options struct {
	// Compat is the compatibility mode: dependency targets must be spelled
	// *T, which lets T be any expression, resolvable or not.
	Compat bool
	// NoDoc suppresses documentation comments in the generated output.
	NoDoc bool
}

// Merge returns the union of two option sets.
func (o Options) Merge(other Options) Options {
	return Options{
		Compat: o.Compat || other.Compat,
		NoDoc:  o.NoDoc || other.NoDoc,
	}
}

// Import is one import required by the generated file.
type Import struct {
	Alias string
	Path  string
}

// FieldNames returns the names of all fields in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	return names
}

// MarkerParam returns the scope marker type parameter, if the schema declares one.
func (s *Schema) MarkerParam() (TypeParam, bool) {
	for _, tp := range s.TypeParams {
		if tp.Name == s.ScopeMarker {
			return tp, true
		}
	}

	return TypeParam{}, false
}
