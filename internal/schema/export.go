package schema

import (
	"fmt"
	"go/types"
	"sort"
)

// Export converts schemas into a schema file, so structs discovered in Go
// source can be maintained as YAML. All schemas must belong to one package.
func Export(schemas []*Schema) (*File, error) {
	f := &File{Version: CurrentVersion}

	imports := map[string]ImportDef{}

	for _, s := range schemas {
		if f.Package == "" {
			f.Package, f.PkgPath = s.Package, s.PkgPath
		} else if s.Package != f.Package || s.PkgPath != f.PkgPath {
			return nil, fmt.Errorf("schema %s is in package %s, expected %s", s.Source, s.Package, f.Package)
		}

		for _, imp := range s.Imports {
			imports[imp.Path] = ImportDef{Path: imp.Path, Alias: imp.Alias}
		}

		f.Structs = append(f.Structs, exportStruct(s))
	}

	for _, imp := range imports {
		f.Imports = append(f.Imports, imp)
	}

	sort.Slice(f.Imports, func(i, j int) bool {
		return f.Imports[i].Path < f.Imports[j].Path
	})

	return f, nil
}

func exportStruct(s *Schema) StructDef {
	def := StructDef{Name: s.Name, Source: s.Source}

	if s.ScopeMarker != DefaultScopeMarker {
		def.ScopeMarker = s.ScopeMarker
	}

	if s.Options.Compat {
		def.Options = append(def.Options, OptionCompat)
	}

	if s.Options.NoDoc {
		def.Options = append(def.Options, OptionNoDoc)
	}

	for _, tp := range s.TypeParams {
		param := TypeParamDef{Name: tp.Name}
		if tp.Constraint != nil {
			param.Constraint = types.ExprString(tp.Constraint)
		}

		def.TypeParams = append(def.TypeParams, param)
	}

	for _, field := range s.Fields {
		def.Fields = append(def.Fields, FieldDef{
			Name:    field.Name,
			Type:    types.ExprString(field.Type),
			Borrows: exportBorrows(field.Tokens),
		})
	}

	return def
}

func exportBorrows(tokens []Token) StringOrArray {
	if len(tokens) == 0 {
		return nil
	}

	return StringOrArray{JoinTokens(tokens)}
}
