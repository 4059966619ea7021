package plan

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/schema"
)

// parseLast parses the borrow list of the last field after running every
// earlier field, so roles reflect the whole schema.
func parseLast(t *testing.T, specs ...fieldSpec) ([]DependencyEdge, []FieldDescriptor, *diagnostic.Diagnostics) {
	t.Helper()

	s := testSchema(t, specs...)
	fields := NewDescriptors(s)
	diags := &diagnostic.Diagnostics{}

	var edges []DependencyEdge
	for i := range fields {
		edges = ParseDependencies(s.Fields[i].Tokens, i, fields, s.Source, diags)
		fields[i].Dependencies = edges
	}

	return edges, fields, diags
}

func TestParseDependencies(t *testing.T) {
	edges, fields, diags := parseLast(t,
		f("source *string"),
		f("cursor *int"),
		fb("reader *int", "mut cursor, source"),
	)
	require.True(t, diags.IsValid(), diags.Error())

	assert.Equal(t, []DependencyEdge{
		{Target: 1, Mutable: true, Pos: token.Position{Filename: "agg.go", Line: 4, Column: 24}},
		{Target: 0, Mutable: false, Pos: token.Position{Filename: "agg.go", Line: 4, Column: 32}},
	}, edges)

	assert.Equal(t, RoleSharedDependency, fields[0].Role)
	assert.Equal(t, RoleExclusiveDependency, fields[1].Role)
}

func TestParseDependencies_TrailingComma(t *testing.T) {
	edges, _, diags := parseLast(t, f("a *int"), fb("b *int", "a,"))
	require.True(t, diags.IsValid(), diags.Error())
	assert.Len(t, edges, 1)
}

func TestParseDependencies_SharedTwiceAcrossFields(t *testing.T) {
	_, fields, diags := parseLast(t,
		f("a *int"),
		fb("b *int", "a"),
		fb("c *int", "a"),
	)
	require.True(t, diags.IsValid(), diags.Error())
	assert.Equal(t, RoleSharedDependency, fields[0].Role)
}

func TestParseDependencies_Errors(t *testing.T) {
	tests := []struct {
		name    string
		borrows string
		codes   []string
		column  int
	}{
		{"double mut", "mut mut a", []string{"double_mut"}, 24},
		{"dangling mut at end", "a, mut", []string{"dangling_mut"}, 23},
		{"dangling mut before comma", "mut, a", []string{"dangling_mut"}, 20},
		{"leading comma", ", a", []string{"extra_comma"}, 20},
		{"double comma", "a,, b", []string{"extra_comma"}, 22},
		{"missing comma", "a b", []string{"expected_comma"}, 22},
		{"punctuation", "a; b", []string{"unexpected_token", "expected_comma"}, 21},
		{"number", "a, 1", []string{"unexpected_token"}, 23},
		{"self reference", "c", []string{"forward_reference"}, 20},
		{"unknown field", "nope", []string{"unknown_field"}, 20},
		{"mut after shared", "a, mut a", []string{"borrow_mut_after_shared"}, 27},
		{"shared after mut", "mut b, b", []string{"borrow_shared_after_mut"}, 27},
		{"duplicate shared", "a, a", []string{"duplicate_borrow"}, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, diags := parseLast(t,
				f("a *int"),
				f("b *int"),
				fb("c *int", tt.borrows),
			)

			require.Equal(t, tt.codes, diags.Codes())
			assert.Equal(t, tt.column, diags.Errors[0].Pos.Column)
			assert.Equal(t, "c", diags.Errors[0].Field)
			assert.Equal(t, "aggSchema", diags.Errors[0].Schema)
		})
	}
}

func TestParseDependencies_ForwardReference(t *testing.T) {
	_, _, diags := parseLast(t,
		f("a *int"),
		fb("b *int", "c"),
		fb("c *int", "a"),
	)

	require.Equal(t, []string{"forward_reference"}, diags.Codes())
	assert.Equal(t, "b", diags.Errors[0].Field)
	assert.Equal(t, []string{"move c above b"}, diags.Errors[0].Suggestions)
}

func TestParseDependencies_UnknownFieldSuggestion(t *testing.T) {
	_, _, diags := parseLast(t,
		f("source *string"),
		fb("words []string", "sorce"),
	)

	require.Equal(t, []string{"unknown_field"}, diags.Codes())
	assert.Equal(t, []string{`did you mean "source"?`}, diags.Errors[0].Suggestions)
}

func TestParseDependencies_ErrorLeavesRolesUnchanged(t *testing.T) {
	_, fields, diags := parseLast(t,
		f("a *int"),
		fb("b *int", "a"),
		fb("c *int", "mut a"),
	)

	require.Equal(t, []string{"borrow_mut_after_shared"}, diags.Codes())
	assert.Equal(t, RoleSharedDependency, fields[0].Role)
	assert.Empty(t, fields[2].Dependencies)
}

func TestParseDependencies_ExclusiveThenShared(t *testing.T) {
	_, _, diags := parseLast(t,
		f("a *int"),
		fb("b *int", "mut a"),
		fb("c *int", "a"),
	)

	assert.Equal(t, []string{"borrow_shared_after_mut"}, diags.Codes())
}

func TestParseDependencies_NoTokens(t *testing.T) {
	s := testSchema(t, f("a *int"))
	fields := NewDescriptors(s)

	edges := ParseDependencies(nil, 0, fields, s.Source, &diagnostic.Diagnostics{})
	assert.Empty(t, edges)

	edges = ParseDependencies(schema.Tokenize("", token.Position{}), 0, fields, s.Source, &diagnostic.Diagnostics{})
	assert.Empty(t, edges)
}
