package plan

import (
	"go/ast"
	"go/token"
	"go/types"

	"selfref-generator/internal/schema"
)

//go:generate go tool stringer -type=Role -trimprefix=Role

// Role is how a field is used by the fields declared after it.
// Roles only move away from RoleTail, never back.
type Role int

const (
	// RoleTail is a field nothing borrows. It gets value and mutable accessors.
	RoleTail Role = iota
	// RoleSharedDependency is borrowed only immutably. Its contents stay readable.
	RoleSharedDependency
	// RoleExclusiveDependency is borrowed mutably by exactly one field. It is not
	// reachable from outside once the aggregate exists.
	RoleExclusiveDependency
)

// DependencyEdge is one resolved borrow: the depending field takes a
// reference into the field at index Target.
type DependencyEdge struct {
	// Target is the declaration index of the borrowed field. Always lower
	// than the index of the field holding the edge.
	Target int
	// Mutable is true for exclusive ("mut") borrows.
	Mutable bool
	// Pos is the position of the borrowed name in the declaration.
	Pos token.Position
}

// FieldDescriptor is the analyzed form of one declared field.
type FieldDescriptor struct {
	// Name is the declared field name.
	Name string
	// Index is the declaration index.
	Index int
	// Type is the declared type expression.
	Type ast.Expr
	// TypeText is Type rendered as source.
	TypeText string
	// GoType is the checked type, nil without type information.
	GoType types.Type
	// Dependencies are the borrows in declaration order of the borrow list.
	Dependencies []DependencyEdge
	// Role is assigned by later fields borrowing this one.
	Role Role
	// Pos is the position of the field declaration.
	Pos token.Position

	// StorageType is Type with the scope marker erased.
	StorageType ast.Expr
	// StorageText is StorageType rendered as source.
	StorageText string
	// ContentText is the reference type handed to builders and content
	// accessors. Only set on dependency targets.
	ContentText string

	// Names are the generated identifiers derived from this field.
	Names FieldNames
}

// IsHead reports whether the field has no dependencies, so it is supplied
// directly by the caller.
func (f *FieldDescriptor) IsHead() bool {
	return len(f.Dependencies) == 0
}

// IsTarget reports whether any later field borrows this one.
func (f *FieldDescriptor) IsTarget() bool {
	return f.Role != RoleTail
}

// FieldNames are the per-field identifiers used in generated code.
type FieldNames struct {
	Exported     string // Source
	Storage      string // source, the field of the generated struct
	Param        string // source for heads, sourceBuilder for dependents
	Ref          string // sourceRef
	BuilderField string // Source for heads, SourceBuilder for dependents
	With         string // WithSource
	WithMut      string // WithSourceMut
	WithContents string // WithSourceContents
	Contents     string // SourceContents
}

// Names are the generated identifiers of one aggregate.
type Names struct {
	Type           string // Document
	Receiver       string // d
	Constructor    string // NewDocument
	TryConstructor string // TryNewDocument
	TryRecover     string // TryNewDocumentOrRecover
	Builder        string // DocumentBuilder
	TryBuilder     string // DocumentTryBuilder
	Heads          string // DocumentHeads
	Fields         string // DocumentFields
	MutFields      string // DocumentMutFields
	Release        string // releaseDocument
	File           string // document_selfref.go
}

// Plan is everything code generation needs for one aggregate.
type Plan struct {
	// Schema is the input the plan was built from.
	Schema *schema.Schema
	// Fields are the descriptors in declaration order.
	Fields []FieldDescriptor
	// Storage is the physical field order, as declaration indices.
	Storage []int
	// Heads are the indices of fields without dependencies, in declaration order.
	Heads []int
	// TypeParams are the generated type parameters: the schema's own, minus
	// the scope marker.
	TypeParams []TypeParam
	// Options are the effective options: the schema's merged with the defaults.
	Options schema.Options
	// Names are the generated identifiers.
	Names Names
}

// TypeParam is a generated type parameter.
type TypeParam struct {
	Name       string
	Constraint string
}

// Field returns the descriptor at a declaration index.
func (p *Plan) Field(index int) *FieldDescriptor {
	return &p.Fields[index]
}

// HeadFields returns the head descriptors in declaration order.
func (p *Plan) HeadFields() []*FieldDescriptor {
	out := make([]*FieldDescriptor, 0, len(p.Heads))
	for _, i := range p.Heads {
		out = append(out, &p.Fields[i])
	}

	return out
}

// Dependents returns the descriptors with dependencies, in declaration order.
func (p *Plan) Dependents() []*FieldDescriptor {
	var out []*FieldDescriptor

	for i := range p.Fields {
		if !p.Fields[i].IsHead() {
			out = append(out, &p.Fields[i])
		}
	}

	return out
}

// FieldsWithRole returns the descriptors with the given role, in declaration order.
func (p *Plan) FieldsWithRole(role Role) []*FieldDescriptor {
	var out []*FieldDescriptor

	for i := range p.Fields {
		if p.Fields[i].Role == role {
			out = append(out, &p.Fields[i])
		}
	}

	return out
}

// IsGeneric reports whether the generated type has type parameters.
func (p *Plan) IsGeneric() bool {
	return len(p.TypeParams) > 0
}
