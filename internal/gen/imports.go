package gen

import (
	"go/ast"
	"go/parser"
	"sort"

	"selfref-generator/internal/common"
	"selfref-generator/internal/plan"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// localName returns the name an import is referred to by.
func (i importSpec) localName() string {
	if i.Alias != "" {
		return i.Alias
	}

	return common.PkgAlias(i.Path)
}

// Standard library packages used by the generated release helper.
const (
	errorsPath = "errors"
	ioPath     = "io"
)

// importSet resolves the imports of one generated file.
type importSet struct {
	specs []importSpec
	// ErrorsPkg and IoPkg are the names the generated code uses for errors and io.
	ErrorsPkg string
	IoPkg     string
}

// buildImports keeps the schema imports that the generated types refer to
// and adds errors and io, renaming those when a schema import already uses
// the name.
func buildImports(p *plan.Plan) importSet {
	used := usedQualifiers(p)

	byPath := map[string]importSpec{}
	taken := map[string]string{} // local name -> path

	for _, imp := range p.Schema.Imports {
		spec := importSpec{Alias: imp.Alias, Path: imp.Path}
		if !used[spec.localName()] {
			continue
		}

		byPath[spec.Path] = spec
		taken[spec.localName()] = spec.Path
	}

	set := importSet{
		ErrorsPkg: addStd(byPath, taken, errorsPath, "stderrors"),
		IoPkg:     addStd(byPath, taken, ioPath, "stdio"),
	}

	for _, spec := range byPath {
		set.specs = append(set.specs, spec)
	}

	sort.Slice(set.specs, func(i, j int) bool {
		return set.specs[i].Path < set.specs[j].Path
	})

	return set
}

// addStd imports a standard package under its own name, reusing an existing
// import of the same path, or under alias when the name is taken.
func addStd(byPath map[string]importSpec, taken map[string]string, path, alias string) string {
	if spec, ok := byPath[path]; ok {
		return spec.localName()
	}

	spec := importSpec{Path: path}
	if other, ok := taken[common.PkgAlias(path)]; ok && other != path {
		spec.Alias = alias
	}

	byPath[path] = spec
	taken[spec.localName()] = path

	return spec.localName()
}

// usedQualifiers returns the package names referenced by the storage types
// and type parameter constraints of a plan.
func usedQualifiers(p *plan.Plan) map[string]bool {
	used := map[string]bool{}

	collect := func(expr ast.Expr) {
		ast.Inspect(expr, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if ident, ok := sel.X.(*ast.Ident); ok {
				used[ident.Name] = true
			}

			return false
		})
	}

	for i := range p.Fields {
		if p.Fields[i].StorageType != nil {
			collect(p.Fields[i].StorageType)
		}
	}

	for _, tp := range p.TypeParams {
		if expr, err := parser.ParseExpr(tp.Constraint); err == nil {
			collect(expr)
		}
	}

	return used
}
