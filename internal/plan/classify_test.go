package plan

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/schema"
)

func TestCheckShape(t *testing.T) {
	tests := []struct {
		name   string
		schema func(t *testing.T) *schema.Schema
		codes  []string
	}{
		{
			name:   "empty",
			schema: func(t *testing.T) *schema.Schema { return testSchema(t) },
			codes:  []string{"empty_struct"},
		},
		{
			name: "embedded",
			schema: func(t *testing.T) *schema.Schema {
				s := testSchema(t, f("a *int"), fb("b *int", "a"))
				s.Fields = append(s.Fields, schema.Field{Type: ast.NewIdent("Base"), Embedded: true})

				return s
			},
			codes: []string{"embedded_field"},
		},
		{
			name:   "blank",
			schema: func(t *testing.T) *schema.Schema { return testSchema(t, f("_ *int"), f("_ *int")) },
			codes:  []string{"blank_field", "blank_field"},
		},
		{
			name: "marker as field type",
			schema: func(t *testing.T) *schema.Schema {
				return withMarker(t, testSchema(t, f("a *int"), fb("b This", "a")), "This any")
			},
			codes: []string{"type_param_unsupported"},
		},
		{
			name: "marker constraint",
			schema: func(t *testing.T) *schema.Schema {
				return withMarker(t, testSchema(t, f("a *int"), fb("b *int", "a")), "This comparable")
			},
			codes: []string{"scope_marker_constraint"},
		},
		{
			name: "duplicate type parameter",
			schema: func(t *testing.T) *schema.Schema {
				return withMarker(t, testSchema(t, f("a *int"), fb("b *int", "a")), "T any", "T any")
			},
			codes: []string{"type_param_unsupported"},
		},
		{
			name: "valid",
			schema: func(t *testing.T) *schema.Schema {
				return withMarker(t, testSchema(t, f("a *int"), fb("b *int", "a")), "This interface{}", "T any")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := &diagnostic.Diagnostics{}
			CheckShape(tt.schema(t), diags)

			if tt.codes == nil {
				assert.True(t, diags.IsValid(), diags.Error())
				return
			}

			assert.Equal(t, tt.codes, diags.Codes())
		})
	}
}

func TestClassify(t *testing.T) {
	s := testSchema(t, f("a *int"), fb("b *int", "a"))
	fields := NewDescriptors(s)
	fields[1].Dependencies = []DependencyEdge{{Target: 0}}

	diags := &diagnostic.Diagnostics{}
	Classify(s, fields, diags)
	assert.True(t, diags.IsValid())

	fields[1].Dependencies = nil
	Classify(s, fields, diags)
	require.Equal(t, []string{"no_dependent_field"}, diags.Codes())
	assert.Equal(t, "aggSchema", diags.Errors[0].Schema)
}
