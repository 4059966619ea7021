package analyze

import (
	"go/types"
	"strings"

	"selfref-generator/internal/schema"
)

// FieldPath builds a readable path string for a schema field.
// Examples:
//   - "Document" for the schema itself
//   - "Document.reader" for a field
//   - "Document.reader(mut cursor, source)" for a field with its borrows
type FieldPath struct {
	parts []string
}

// NewFieldPath creates a new FieldPath from a schema name.
func NewFieldPath(root string) *FieldPath {
	return &FieldPath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *FieldPath) Field(name string) *FieldPath {
	return &FieldPath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Borrows appends a borrow list to the last element of the path.
func (p *FieldPath) Borrows(tokens []schema.Token) *FieldPath {
	if len(tokens) == 0 {
		return p
	}

	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += "(" + schema.JoinTokens(tokens) + ")"

	return &FieldPath{parts: newParts}
}

// String returns the full path string.
func (p *FieldPath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeStringer renders field types as they would be written inside the
// schema's own package.
type TypeStringer struct {
	pkgPath string
}

// NewTypeStringer creates a TypeStringer for the package with the given import path.
func NewTypeStringer(pkgPath string) *TypeStringer {
	return &TypeStringer{pkgPath: pkgPath}
}

// TypeString returns a human-readable representation of a field type.
// Checked types are preferred; the declared expression is the fallback.
func (s *TypeStringer) TypeString(f *schema.Field) string {
	if f == nil {
		return "<nil>"
	}

	if f.GoType != nil {
		return types.TypeString(f.GoType, s.qualifier)
	}

	if f.Type != nil {
		return types.ExprString(f.Type)
	}

	return "<nil>"
}

// FieldPaths returns the path of every field of a schema, borrows included.
func (s *TypeStringer) FieldPaths(sc *schema.Schema) []string {
	root := NewFieldPath(sc.Name)

	paths := make([]string, 0, len(sc.Fields))
	for i := range sc.Fields {
		f := &sc.Fields[i]
		paths = append(paths, root.Field(f.Name).Borrows(f.Tokens).String())
	}

	return paths
}

func (s *TypeStringer) qualifier(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == s.pkgPath {
		return ""
	}

	return pkg.Name()
}
