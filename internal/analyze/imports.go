package analyze

import (
	"go/ast"
	"go/types"
	"sort"
	"strconv"

	"golang.org/x/tools/go/packages"

	"selfref-generator/internal/common"
	"selfref-generator/internal/schema"
)

// importSet collects the imports referenced by field types.
type importSet struct {
	pkg    *packages.Package
	byName map[string]string // local name -> path, from the file's import list
	used   map[string]schema.Import
}

func newImportSet(pkg *packages.Package, file *ast.File) *importSet {
	set := &importSet{
		pkg:    pkg,
		byName: map[string]string{},
		used:   map[string]schema.Import{},
	}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := common.PkgAlias(path)
		if spec.Name != nil {
			name = spec.Name.Name
		}

		set.byName[name] = path
	}

	return set
}

// collect records every package qualifier used in expr.
func (s *importSet) collect(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		s.add(ident)

		return false
	})
}

func (s *importSet) add(ident *ast.Ident) {
	if s.pkg.TypesInfo != nil {
		if pn, ok := s.pkg.TypesInfo.Uses[ident].(*types.PkgName); ok {
			imp := schema.Import{Path: pn.Imported().Path()}
			if pn.Name() != common.PkgAlias(imp.Path) {
				imp.Alias = pn.Name()
			}

			s.used[imp.Path] = imp

			return
		}
	}

	path, ok := s.byName[ident.Name]
	if !ok {
		return
	}

	imp := schema.Import{Path: path}
	if ident.Name != common.PkgAlias(path) {
		imp.Alias = ident.Name
	}

	s.used[path] = imp
}

// list returns the collected imports sorted by path.
func (s *importSet) list() []schema.Import {
	out := make([]schema.Import, 0, len(s.used))
	for _, imp := range s.used {
		out = append(out, imp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}
