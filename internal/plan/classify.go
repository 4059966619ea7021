package plan

import (
	"fmt"
	"go/ast"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/schema"
)

// minFields is the smallest field count that can hold a dependency.
const minFields = 2

// CheckShape rejects schemas the engine cannot represent: embedded fields,
// blank fields, empty structs and unusable type parameters.
func CheckShape(s *schema.Schema, diags *diagnostic.Diagnostics) {
	if len(s.Fields) == 0 {
		diags.AddError("empty_struct",
			fmt.Sprintf("%s has no fields; an aggregate needs named fields", s.Source), s.Source, "", s.Pos)

		return
	}

	for i := range s.Fields {
		f := &s.Fields[i]

		switch {
		case f.Embedded:
			d := diags.AddError("embedded_field",
				fmt.Sprintf("embedded field %s is not supported; fields must be named", exprString(f.Type)),
				s.Source, "", f.Pos)
			d.Suggest("give the field a name")

		case f.Name == "_":
			diags.AddError("blank_field", "blank fields are not supported; fields must be named", s.Source, f.Name, f.Pos)

		case f.Type != nil && isMarkerIdent(f.Type, s.ScopeMarker):
			diags.AddError("type_param_unsupported",
				fmt.Sprintf("%s cannot be a field type; use it as a type argument, e.g. *Reader[%s]",
					s.ScopeMarker, s.ScopeMarker),
				s.Source, f.Name, f.Pos)
		}
	}

	seen := map[string]bool{}

	for _, tp := range s.TypeParams {
		if seen[tp.Name] {
			diags.AddError("type_param_unsupported",
				fmt.Sprintf("type parameter %s is declared twice", tp.Name), s.Source, "", tp.Pos)
		}

		seen[tp.Name] = true

		if tp.Name != s.ScopeMarker || tp.Constraint == nil {
			continue
		}

		if !isAnyConstraint(tp.Constraint) {
			d := diags.AddError("scope_marker_constraint",
				fmt.Sprintf("scope marker %s must be constrained by any, not %s", tp.Name, exprString(tp.Constraint)),
				s.Source, "", tp.Pos)
			d.Suggest(fmt.Sprintf("declare it as [%s any]", tp.Name))
		}
	}
}

// Classify checks the structural requirements that depend on parsed
// dependencies: at least two fields, and at least one field that borrows.
func Classify(s *schema.Schema, fields []FieldDescriptor, diags *diagnostic.Diagnostics) {
	if len(fields) < minFields {
		diags.AddError("too_few_fields",
			fmt.Sprintf("%s has %d field(s); an aggregate needs at least %d", s.Source, len(fields), minFields),
			s.Source, "", s.Pos)

		return
	}

	for i := range fields {
		if !fields[i].IsHead() {
			return
		}
	}

	d := diags.AddError("no_dependent_field",
		fmt.Sprintf("no field of %s borrows another field; use a plain struct instead", s.Source),
		s.Source, "", s.Pos)
	d.Suggest(fmt.Sprintf("add `%s:%q` to a field declared after %s", schema.TagKey, fields[0].Name, fields[0].Name))
}

func isMarkerIdent(expr ast.Expr, marker string) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == marker
}

// isAnyConstraint reports whether a constraint is any or an empty interface.
func isAnyConstraint(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name == "any"
	case *ast.InterfaceType:
		return e.Methods == nil || len(e.Methods.List) == 0
	default:
		return false
	}
}
