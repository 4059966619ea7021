package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"selfref-generator/internal/common"
	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/match"
)

// Validate checks a schema file structurally: names, type expressions and
// options. Dependency declarations are left to the engine.
func Validate(f *File, filename string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "", token.Position{})
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported schema version %q, expected %q", f.Version, CurrentVersion),
			"", "", token.Position{Filename: filename})
	}

	if !IsValidIdent(f.Package) {
		res.AddError("invalid_package", fmt.Sprintf("invalid package name %q", f.Package),
			"", "", token.Position{Filename: filename})
	}

	for _, imp := range f.Imports {
		if imp.Path == "" {
			res.AddError("invalid_import", "import without a path", "", "", token.Position{Filename: filename})
		}

		if imp.Alias != "" && !IsValidIdent(imp.Alias) {
			res.AddError("invalid_import", fmt.Sprintf("invalid import alias %q", imp.Alias),
				"", "", token.Position{Filename: filename})
		}
	}

	names := importNames(f.Imports)
	seenStructs := map[string]struct{}{}

	for i := range f.Structs {
		s := &f.Structs[i]
		pos := token.Position{Filename: filename, Line: s.Line, Column: s.Column}

		if !IsValidIdent(s.Name) {
			res.AddError("invalid_name", fmt.Sprintf("invalid aggregate name %q", s.Name), s.Name, "", pos)
			continue
		}

		if _, ok := seenStructs[s.Name]; ok {
			res.AddError("duplicate_struct", fmt.Sprintf("duplicate struct %q", s.Name), s.Name, "", pos)
			continue
		}

		seenStructs[s.Name] = struct{}{}

		validateStruct(res, s, filename, names)
	}

	return res
}

// validateStruct validates one schema entry.
func validateStruct(res *diagnostic.Diagnostics, s *StructDef, filename string, imports map[string]string) {
	pos := token.Position{Filename: filename, Line: s.Line, Column: s.Column}

	for _, opt := range s.Options {
		if opt == OptionCompat || opt == OptionNoDoc {
			continue
		}

		d := res.AddError("unknown_option",
			fmt.Sprintf("unknown option %q, expected %q or %q", opt, OptionCompat, OptionNoDoc), s.Name, "", pos)
		if best, ok := match.Closest(opt, []string{OptionCompat, OptionNoDoc}); ok {
			d.Suggest(fmt.Sprintf("did you mean %q?", best))
		}
	}

	for _, tp := range s.TypeParams {
		if !IsValidIdent(tp.Name) {
			res.AddError("invalid_type_param", fmt.Sprintf("invalid type parameter name %q", tp.Name), s.Name, "", pos)
		}

		expr, err := parser.ParseExpr(tp.Constraint)
		if err != nil {
			res.AddError("invalid_type",
				fmt.Sprintf("invalid constraint %q for type parameter %s: %v", tp.Constraint, tp.Name, err),
				s.Name, "", pos)

			continue
		}

		checkQualifiers(res, expr, imports, s.Name, "", pos)
	}

	seenFields := map[string]struct{}{}

	for i := range s.Fields {
		fd := &s.Fields[i]
		fpos := token.Position{Filename: filename, Line: fd.Line, Column: fd.Column}

		if fd.Name != "_" && !IsValidIdent(fd.Name) {
			res.AddError("invalid_field_name", fmt.Sprintf("invalid field name %q", fd.Name), s.Name, fd.Name, fpos)
			continue
		}

		if _, ok := seenFields[fd.Name]; ok && fd.Name != "_" {
			res.AddError("duplicate_field", fmt.Sprintf("duplicate field %q", fd.Name), s.Name, fd.Name, fpos)
		}

		seenFields[fd.Name] = struct{}{}

		if fd.Type == "" {
			res.AddError("missing_type", fmt.Sprintf("field %q has no type", fd.Name), s.Name, fd.Name, fpos)
			continue
		}

		expr, err := parser.ParseExpr(fd.Type)
		if err != nil {
			res.AddError("invalid_type", fmt.Sprintf("invalid type %q: %v", fd.Type, err), s.Name, fd.Name, fpos)
			continue
		}

		checkQualifiers(res, expr, imports, s.Name, fd.Name, fpos)
	}
}

// importNames maps the local name of every import to its path.
func importNames(imports []ImportDef) map[string]string {
	names := make(map[string]string, len(imports))

	for _, imp := range imports {
		name := imp.Alias
		if name == "" {
			name = common.PkgAlias(imp.Path)
		}

		names[name] = imp.Path
	}

	return names
}

// checkQualifiers reports package qualifiers in expr that no import
// provides. Such an import would otherwise be dropped from the output.
func checkQualifiers(res *diagnostic.Diagnostics, expr ast.Expr, imports map[string]string,
	structName, field string, pos token.Position,
) {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		if _, ok := imports[ident.Name]; ok {
			return false
		}

		d := res.AddError("unknown_package",
			fmt.Sprintf("no import provides package %s", ident.Name), structName, field, pos)

		known := make([]string, 0, len(imports))
		for name := range imports {
			known = append(known, name)
		}

		if best, ok := match.Closest(ident.Name, known); ok {
			d.Suggest(fmt.Sprintf("did you mean %q?", best))
		} else {
			d.Suggest(fmt.Sprintf("import the package of %s with alias %s", ident.Name, ident.Name))
		}

		return false
	})
}
