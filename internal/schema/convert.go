package schema

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// Schemas converts every entry of a validated file into a Schema.
// filename is where the file was read from and dir is where output goes.
func (f *File) Schemas(filename, dir, scopeMarker string) []*Schema {
	var imports []Import
	for _, imp := range f.Imports {
		imports = append(imports, Import{Alias: imp.Alias, Path: imp.Path})
	}

	out := make([]*Schema, 0, len(f.Structs))

	for i := range f.Structs {
		def := &f.Structs[i]

		marker := def.ScopeMarker
		if marker == "" {
			marker = scopeMarker
		}

		if marker == "" {
			marker = DefaultScopeMarker
		}

		s := &Schema{
			Name:        def.Name,
			Source:      def.Source,
			Package:     f.Package,
			PkgPath:     f.PkgPath,
			Dir:         dir,
			File:        filename,
			Pos:         token.Position{Filename: filename, Line: def.Line, Column: def.Column},
			ScopeMarker: marker,
			Imports:     imports,
			Options: Options{
				Compat: containsString(def.Options, OptionCompat),
				NoDoc:  containsString(def.Options, OptionNoDoc),
			},
		}

		for _, tp := range def.TypeParams {
			s.TypeParams = append(s.TypeParams, TypeParam{
				Name:       tp.Name,
				Constraint: mustParseExpr(tp.Constraint),
				Pos:        s.Pos,
			})
		}

		for j := range def.Fields {
			fd := &def.Fields[j]

			field := Field{
				Name: fd.Name,
				Type: mustParseExpr(fd.Type),
				Pos:  token.Position{Filename: filename, Line: fd.Line, Column: fd.Column},
			}

			if decl := fd.Borrows.Declaration(); decl != "" {
				base := token.Position{Filename: filename, Line: fd.BorrowsLine, Column: fd.BorrowsColumn}
				field.Tokens = Tokenize(decl, base)
			}

			s.Fields = append(s.Fields, field)
		}

		out = append(out, s)
	}

	return out
}

// mustParseExpr parses an expression that Validate already accepted.
func mustParseExpr(src string) ast.Expr {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return ast.NewIdent(src)
	}

	return expr
}

func containsString(values StringOrArray, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}

	return false
}
