package plan

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"selfref-generator/internal/schema"
)

// fieldSpec is a compact field declaration for tests: "name type" plus an
// optional borrow list.
type fieldSpec struct {
	decl    string
	borrows string
}

func f(decl string) fieldSpec { return fieldSpec{decl: decl} }

func fb(decl, borrows string) fieldSpec { return fieldSpec{decl: decl, borrows: borrows} }

func testSchema(t *testing.T, specs ...fieldSpec) *schema.Schema {
	t.Helper()

	s := &schema.Schema{
		Name:        "Agg",
		Source:      "aggSchema",
		Package:     "demo",
		ScopeMarker: schema.DefaultScopeMarker,
		Pos:         token.Position{Filename: "agg.go", Line: 1, Column: 1},
	}

	for i, spec := range specs {
		name, typ, ok := strings.Cut(spec.decl, " ")
		require.True(t, ok, "bad field spec %q", spec.decl)

		expr, err := parser.ParseExpr(typ)
		require.NoError(t, err)

		field := schema.Field{
			Name: name,
			Type: expr,
			Pos:  token.Position{Filename: "agg.go", Line: i + 2, Column: 2},
		}

		if spec.borrows != "" {
			field.Tokens = schema.Tokenize(spec.borrows, token.Position{Filename: "agg.go", Line: i + 2, Column: 20})
		}

		s.Fields = append(s.Fields, field)
	}

	return s
}

func withMarker(t *testing.T, s *schema.Schema, params ...string) *schema.Schema {
	t.Helper()

	for _, p := range params {
		name, constraint, ok := strings.Cut(p, " ")
		require.True(t, ok)

		expr, err := parser.ParseExpr(constraint)
		require.NoError(t, err)

		s.TypeParams = append(s.TypeParams, schema.TypeParam{Name: name, Constraint: expr})
	}

	return s
}
