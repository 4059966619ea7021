package plan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"selfref-generator/internal/diagnostic"
)

// erasedMarker replaces the scope marker in storage types.
const erasedMarker = "any"

// Layout fills in the physical layout of a plan: storage order, heads,
// erased storage types and generated type parameters. It then checks that
// every dependency target keeps its referent at a stable address.
func Layout(p *Plan, diags *diagnostic.Diagnostics) {
	s := p.Schema

	_, hasMarker := s.MarkerParam()

	p.Storage = make([]int, 0, len(p.Fields))
	for i := len(p.Fields) - 1; i >= 0; i-- {
		p.Storage = append(p.Storage, i)
	}

	p.Heads = p.Heads[:0]

	for i := range p.Fields {
		f := &p.Fields[i]
		if f.IsHead() {
			p.Heads = append(p.Heads, i)
		}

		f.StorageType = f.Type
		if hasMarker {
			f.StorageType = EraseMarker(f.Type, s.ScopeMarker)
		}

		f.StorageText = exprString(f.StorageType)
	}

	p.TypeParams = nil

	for _, tp := range s.TypeParams {
		if hasMarker && tp.Name == s.ScopeMarker {
			continue
		}

		constraint := tp.Constraint
		if hasMarker && constraint != nil {
			constraint = EraseMarker(constraint, s.ScopeMarker)
		}

		text := erasedMarker
		if constraint != nil {
			text = exprString(constraint)
		}

		p.TypeParams = append(p.TypeParams, TypeParam{Name: tp.Name, Constraint: text})
	}

	for i := range p.Fields {
		f := &p.Fields[i]
		if !f.IsTarget() {
			continue
		}

		if checkStable(p, f, diags) {
			f.ContentText = f.StorageText
		}
	}
}

// EraseMarker returns a copy of expr with every use of the scope marker
// replaced by any. The input is left untouched.
func EraseMarker(expr ast.Expr, marker string) ast.Expr {
	cp := copyExpr(expr)

	res := astutil.Apply(cp, func(c *astutil.Cursor) bool {
		ident, ok := c.Node().(*ast.Ident)
		if !ok || ident.Name != marker {
			return true
		}

		switch c.Parent().(type) {
		case *ast.SelectorExpr:
			if c.Name() == "Sel" {
				return true
			}
		case *ast.Field:
			if c.Name() == "Names" {
				return true
			}
		}

		c.Replace(ast.NewIdent(erasedMarker))

		return true
	}, nil)

	return res.(ast.Expr)
}

// copyExpr returns a fresh tree for a type expression.
func copyExpr(expr ast.Expr) ast.Expr {
	cp, err := parser.ParseExpr(exprString(expr))
	if err != nil {
		return expr
	}

	return cp
}

// checkStable reports whether a dependency target keeps its referent at an
// address that survives moving the aggregate.
func checkStable(p *Plan, f *FieldDescriptor, diags *diagnostic.Diagnostics) bool {
	if p.Options.Compat {
		if _, ok := f.StorageType.(*ast.StarExpr); ok {
			return true
		}

		d := diags.AddError("compat_requires_pointer",
			fmt.Sprintf("%s is borrowed, so in compat mode its type must be written *T, not %s", f.Name, f.TypeText),
			p.Schema.Source, f.Name, f.Pos)
		d.Suggest(fmt.Sprintf("declare %s as *%s", f.Name, f.TypeText))

		return false
	}

	if f.GoType != nil {
		if stableType(f.GoType) {
			return true
		}

		d := diags.AddError("unstable_dependency_type",
			fmt.Sprintf("%s is borrowed but its type %s is stored inline; "+
				"borrowed fields must be a pointer, slice, map, channel, func, interface or string",
				f.Name, f.TypeText),
			p.Schema.Source, f.Name, f.Pos)
		d.Suggest(fmt.Sprintf("declare %s as *%s", f.Name, f.TypeText))

		return false
	}

	if stableExpr(f.StorageType) {
		return true
	}

	d := diags.AddError("unstable_dependency_type",
		fmt.Sprintf("%s is borrowed but %s cannot be shown to have a stable referent without type information",
			f.Name, f.TypeText),
		p.Schema.Source, f.Name, f.Pos)
	d.Suggest(fmt.Sprintf("declare %s as *%s, or load the schema from Go source", f.Name, f.TypeText))

	return false
}

// stableType checks a checked type.
func stableType(t types.Type) bool {
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		return false
	}

	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	case *types.Basic:
		return u.Info()&types.IsString != 0
	default:
		return false
	}
}

// stableExpr checks a type expression syntactically.
func stableExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return true
	case *ast.ArrayType:
		return e.Len == nil
	case *ast.ParenExpr:
		return stableExpr(e.X)
	case *ast.Ident:
		return e.Name == "string" || e.Name == "any" || e.Name == "error"
	default:
		return false
	}
}

func exprString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	return types.ExprString(expr)
}
