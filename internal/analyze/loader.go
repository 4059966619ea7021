package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"selfref-generator/internal/common"
	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and extracts the schemas declared in them.
type Analyzer struct {
	cfg   Config
	diags *diagnostic.Diagnostics
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.ScopeMarker == "" {
		cfg.ScopeMarker = schema.DefaultScopeMarker
	}

	return &Analyzer{
		cfg:   cfg,
		diags: &diagnostic.Diagnostics{},
	}
}

// Diagnostics returns the problems found while reading directives and tags.
// Package load errors are reported as warnings: a stale generated file may
// break type checking without making the schema itself unusable.
func (a *Analyzer) Diagnostics() *diagnostic.Diagnostics {
	return a.diags
}

// LoadPackages loads the specified packages and extracts their schemas.
// Patterns are standard Go package patterns (e.g., "./...", "selfref-generator/examples/document").
func (a *Analyzer) LoadPackages(patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.cfg.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	res := &Result{}
	seen := map[string]bool{}

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			a.diags.AddWarning("package_error", e.Msg, "", "", parsePos(e.Pos))
		}

		if seen[pkg.ID] || len(pkg.Syntax) == 0 {
			continue
		}

		seen[pkg.ID] = true

		info := a.processPackage(pkg)
		if info != nil {
			res.Packages = append(res.Packages, info)
		}
	}

	return res, nil
}

// processPackage extracts schemas from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) *PackageInfo {
	info := &PackageInfo{
		Path:     pkg.PkgPath,
		Name:     pkg.Name,
		OwnFiles: map[string]bool{},
	}

	type fileEntry struct {
		name string
		file *ast.File
	}

	files := make([]fileEntry, 0, len(pkg.Syntax))
	for _, f := range pkg.Syntax {
		files = append(files, fileEntry{name: pkg.Fset.Position(f.Pos()).Filename, file: f})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	for _, fe := range files {
		if info.Dir == "" {
			info.Dir = filepath.Dir(fe.name)
		}

		if isOwnFile(fe.file) {
			info.OwnFiles[fe.name] = true
			continue
		}

		for _, decl := range fe.file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				directive, pos, ok := findDirective(pkg.Fset, doc)
				if !ok {
					continue
				}

				if s := a.buildSchema(pkg, fe.file, ts, directive, pos); s != nil {
					info.Schemas = append(info.Schemas, s)
				}
			}
		}
	}

	for _, s := range info.Schemas {
		s.OwnFiles = info.OwnFiles
	}

	return info
}

// buildSchema converts one annotated type declaration into a Schema.
func (a *Analyzer) buildSchema(
	pkg *packages.Package,
	file *ast.File,
	ts *ast.TypeSpec,
	directive string,
	dirPos token.Position,
) *schema.Schema {
	source := ts.Name.Name
	pos := pkg.Fset.Position(ts.Name.Pos())

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		a.diags.AddError("not_a_struct",
			fmt.Sprintf("%s is annotated with %s but is not a struct type", source, schema.Directive),
			source, "", pos)

		return nil
	}

	name, opts := schema.ParseDirective(directive, dirPos, source, a.diags)
	if name == "" {
		name = schema.DefaultName(source)
	}

	if name == "" {
		d := a.diags.AddError("missing_name",
			fmt.Sprintf("cannot derive an aggregate name from %s", source), source, "", pos)
		d.Suggest(fmt.Sprintf("write %s %s or name the type %sSchema", schema.Directive, "Name", source))

		return nil
	}

	dir := a.cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(pos.Filename)
	}

	s := &schema.Schema{
		Name:        name,
		Source:      source,
		Package:     pkg.Name,
		PkgPath:     pkg.PkgPath,
		Dir:         dir,
		File:        pos.Filename,
		Pos:         pos,
		ScopeMarker: a.cfg.ScopeMarker,
		Options:     opts,
	}

	if pkg.Types != nil {
		s.Scope = pkg.Types.Scope()
		s.Fset = pkg.Fset
	}

	imports := newImportSet(pkg, file)

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			imports.collect(field.Type)

			for _, n := range field.Names {
				s.TypeParams = append(s.TypeParams, schema.TypeParam{
					Name:       n.Name,
					Constraint: field.Type,
					Pos:        pkg.Fset.Position(n.Pos()),
				})
			}
		}
	}

	for _, field := range st.Fields.List {
		imports.collect(field.Type)

		tokens := a.fieldTokens(pkg.Fset, field)

		if len(field.Names) == 0 {
			s.Fields = append(s.Fields, schema.Field{
				Type:     field.Type,
				GoType:   typeOf(pkg, field.Type),
				Tokens:   tokens,
				Embedded: true,
				Pos:      pkg.Fset.Position(field.Pos()),
			})

			continue
		}

		for _, n := range field.Names {
			s.Fields = append(s.Fields, schema.Field{
				Name:   n.Name,
				Type:   field.Type,
				GoType: typeOf(pkg, field.Type),
				Tokens: tokens,
				Pos:    pkg.Fset.Position(n.Pos()),
			})
		}
	}

	s.Imports = imports.list()

	return s
}

// fieldTokens reads the borrows tag of a field and tokenizes its value.
func (a *Analyzer) fieldTokens(fset *token.FileSet, field *ast.Field) []schema.Token {
	if field.Tag == nil {
		return nil
	}

	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return nil
	}

	value, ok := reflect.StructTag(raw).Lookup(schema.TagKey)
	if !ok {
		return nil
	}

	return schema.Tokenize(value, tagValuePos(fset, field.Tag))
}

// tagValuePos returns the position of the first byte of the borrows value
// inside a tag literal. Interpreted string literals may contain escapes, so
// only raw literals get exact columns.
func tagValuePos(fset *token.FileSet, lit *ast.BasicLit) token.Position {
	pos := fset.Position(lit.Pos())
	if !strings.HasPrefix(lit.Value, "`") {
		return pos
	}

	key := schema.TagKey + `:"`

	idx := strings.Index(lit.Value, key)
	if idx < 0 {
		return pos
	}

	pos.Column += idx + len(key)
	pos.Offset += idx + len(key)

	return pos
}

// findDirective returns the directive line of a doc comment, if present.
func findDirective(fset *token.FileSet, doc *ast.CommentGroup) (string, token.Position, bool) {
	if doc == nil {
		return "", token.Position{}, false
	}

	for _, c := range doc.List {
		if schema.IsDirective(c.Text) {
			return c.Text, fset.Position(c.Pos()), true
		}
	}

	return "", token.Position{}, false
}

// isOwnFile reports whether a file was written by this generator.
func isOwnFile(f *ast.File) bool {
	if !ast.IsGenerated(f) {
		return false
	}

	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}

		for _, c := range cg.List {
			if c.Text == common.GeneratedHeader {
				return true
			}
		}
	}

	return false
}

func typeOf(pkg *packages.Package, expr ast.Expr) types.Type {
	if pkg.TypesInfo == nil {
		return nil
	}

	t := pkg.TypesInfo.TypeOf(expr)
	if t == nil || t == types.Typ[types.Invalid] {
		return nil
	}

	return t
}

// parsePos parses the "file:line:col" form used by packages.Error.
func parsePos(s string) token.Position {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return token.Position{}
	}

	pos := token.Position{Filename: parts[0]}
	pos.Line, _ = strconv.Atoi(parts[1])

	if len(parts) > 2 {
		pos.Column, _ = strconv.Atoi(parts[2])
	}

	return pos
}
