package gen

import (
	"fmt"
	"strings"

	"selfref-generator/internal/common"
	"selfref-generator/internal/plan"
)

// templateData holds all data needed for the aggregate template.
type templateData struct {
	Header      string
	PackageName string
	Imports     []importSpec
	ErrorsPkg   string
	IoPkg       string
	Doc         bool
	Source      string

	Names plan.Names
	// TypeParams is the declaration list ("[T any]"), TypeArgs the use ("[T]").
	TypeParams string
	TypeArgs   string

	// Instantiated generated types.
	SelfType       string
	HeadsType      string
	FieldsType     string
	MutFieldsType  string
	BuilderType    string
	TryBuilderType string

	Storage  []storageField
	Params   []paramData
	Steps    []stepData
	Heads    []headData
	Tails    []accessorData
	Shared   []accessorData
	Views    []viewData
	MutViews []viewData

	// CallArgs is the parameter list forwarded by TryNew and the builders.
	CallArgs        string
	BuilderCallArgs string
	// Dependents are the storage expressions of fields that borrow, in
	// reverse declaration order.
	Dependents string
	// AllFields are the storage expressions of every field, in storage order.
	AllFields string
	// HeadsFromStorage builds the heads of a complete aggregate.
	HeadsFromStorage string
	UsePanic         string
	// BuilderReceiver names the receiver of the builder methods.
	BuilderReceiver string
}

// storageField is one field of the generated struct.
type storageField struct {
	Name string
	Type string
}

// paramData is one constructor parameter.
type paramData struct {
	Name         string
	BuilderField string
	Type         string
	TryType      string
	Doc          string
}

// stepData is one materialization step of a constructor body.
type stepData struct {
	Field  string
	IsHead bool
	Param  string
	Local  string
	Args   string
	Ref    string
	// FailHeads and FailRelease are used by the fallible constructor when
	// this step's builder fails.
	FailHeads   string
	FailRelease string
}

// headData is one field of the heads struct.
type headData struct {
	Name string
	Type string
}

// accessorData is one field accessor.
type accessorData struct {
	Field        string
	Storage      string
	Type         string
	With         string
	WithMut      string
	WithContents string
	BorrowedBy   string
}

// viewData is one field of the With/WithMut views.
type viewData struct {
	Name string
	Type string
	Expr string
}

// buildTemplateData constructs the template data from a plan.
func (g *Generator) buildTemplateData(p *plan.Plan) *templateData {
	imports := buildImports(p)
	n := p.Names

	data := &templateData{
		Header:      common.GeneratedHeader,
		PackageName: p.Schema.Package,
		Imports:     imports.specs,
		ErrorsPkg:   imports.ErrorsPkg,
		IoPkg:       imports.IoPkg,
		Doc:         g.config.GenerateComments && !p.Options.NoDoc,
		Source:      p.Schema.Source,
		Names:       n,
		UsePanic:    fmt.Sprintf("%s used after IntoHeads or Close", n.Type),

		BuilderReceiver: "b",
	}

	if p.IsGeneric() {
		decl := make([]string, 0, len(p.TypeParams))
		args := make([]string, 0, len(p.TypeParams))

		for _, tp := range p.TypeParams {
			if tp.Name == data.BuilderReceiver {
				data.BuilderReceiver = "builder"
			}

			decl = append(decl, tp.Name+" "+tp.Constraint)
			args = append(args, tp.Name)
		}

		data.TypeParams = "[" + strings.Join(decl, ", ") + "]"
		data.TypeArgs = "[" + strings.Join(args, ", ") + "]"
	}

	data.SelfType = n.Type + data.TypeArgs
	data.HeadsType = n.Heads + data.TypeArgs
	data.FieldsType = n.Fields + data.TypeArgs
	data.MutFieldsType = n.MutFields + data.TypeArgs
	data.BuilderType = n.Builder + data.TypeArgs
	data.TryBuilderType = n.TryBuilder + data.TypeArgs

	for _, i := range p.Storage {
		f := p.Field(i)
		data.Storage = append(data.Storage, storageField{Name: f.Names.Storage, Type: f.StorageText})
	}

	g.buildConstructor(p, data)
	g.buildAccessors(p, data)

	return data
}

// buildConstructor prepares parameters and materialization steps.
func (g *Generator) buildConstructor(p *plan.Plan, data *templateData) {
	var (
		callArgs, builderArgs []string
		materialized          []*plan.FieldDescriptor
	)

	for i := range p.Fields {
		f := p.Field(i)

		param := paramData{
			Name:         f.Names.Param,
			BuilderField: f.Names.BuilderField,
			Type:         f.StorageText,
			TryType:      f.StorageText,
			Doc:          fmt.Sprintf("the value of %s", f.Name),
		}

		step := stepData{
			Field:  f.Names.Storage,
			IsHead: f.IsHead(),
			Param:  f.Names.Param,
		}

		if !f.IsHead() {
			depParams := make([]string, 0, len(f.Dependencies))
			depArgs := make([]string, 0, len(f.Dependencies))

			for _, e := range f.Dependencies {
				dep := p.Field(e.Target)
				depParams = append(depParams, dep.Name+" "+dep.ContentText)
				depArgs = append(depArgs, dep.Names.Ref)
			}

			sig := "func(" + strings.Join(depParams, ", ") + ")"
			param.Type = sig + " " + f.StorageText
			param.TryType = sig + " (" + f.StorageText + ", error)"
			param.Doc = fmt.Sprintf("builds %s from %s", f.Name, borrowList(p, f))

			step.Local = f.Name
			step.Args = strings.Join(depArgs, ", ")
			step.FailHeads = failHeads(p, i)
			step.FailRelease = releaseList(materialized)
		}

		if f.IsTarget() {
			step.Ref = f.Names.Ref
		}

		if !f.IsHead() {
			materialized = append(materialized, f)
		}

		data.Params = append(data.Params, param)
		data.Steps = append(data.Steps, step)

		callArgs = append(callArgs, f.Names.Param)
		builderArgs = append(builderArgs, data.BuilderReceiver+"."+f.Names.BuilderField)
	}

	data.CallArgs = strings.Join(callArgs, ", ")
	data.BuilderCallArgs = strings.Join(builderArgs, ", ")

	var heads []string

	for _, f := range p.HeadFields() {
		data.Heads = append(data.Heads, headData{Name: f.Names.Exported, Type: f.StorageText})
		heads = append(heads, fmt.Sprintf("%s: %s.%s", f.Names.Exported, p.Names.Receiver, f.Names.Storage))
	}

	data.HeadsFromStorage = strings.Join(heads, ", ")

	dependents := p.Dependents()
	exprs := make([]string, 0, len(dependents))

	for i := len(dependents) - 1; i >= 0; i-- {
		exprs = append(exprs, p.Names.Receiver+"."+dependents[i].Names.Storage)
	}

	data.Dependents = strings.Join(exprs, ", ")

	all := make([]string, 0, len(p.Storage))
	for _, i := range p.Storage {
		all = append(all, p.Names.Receiver+"."+p.Field(i).Names.Storage)
	}

	data.AllFields = strings.Join(all, ", ")
}

// failHeads renders the heads literal returned when the builder of the
// field at index fails: heads already stored come from the aggregate, the
// others from the parameters.
func failHeads(p *plan.Plan, failed int) string {
	var parts []string

	for _, f := range p.HeadFields() {
		src := f.Names.Param
		if f.Index < failed {
			src = "result." + f.Names.Storage
		}

		parts = append(parts, fmt.Sprintf("%s: %s", f.Names.Exported, src))
	}

	return strings.Join(parts, ", ")
}

// releaseList renders the materialized dependents in reverse order.
func releaseList(materialized []*plan.FieldDescriptor) string {
	parts := make([]string, 0, len(materialized))
	for i := len(materialized) - 1; i >= 0; i-- {
		parts = append(parts, "result."+materialized[i].Names.Storage)
	}

	return strings.Join(parts, ", ")
}

// borrowList describes the borrows of a field for documentation.
func borrowList(p *plan.Plan, f *plan.FieldDescriptor) string {
	parts := make([]string, 0, len(f.Dependencies))

	for _, e := range f.Dependencies {
		name := p.Field(e.Target).Name
		if e.Mutable {
			name += " (exclusive)"
		}

		parts = append(parts, name)
	}

	return strings.Join(parts, ", ")
}

// buildAccessors prepares per-field accessors and the aggregate views.
func (g *Generator) buildAccessors(p *plan.Plan, data *templateData) {
	borrowers := map[int][]string{}

	for i := range p.Fields {
		for _, e := range p.Fields[i].Dependencies {
			borrowers[e.Target] = append(borrowers[e.Target], p.Fields[i].Name)
		}
	}

	for i := range p.Fields {
		f := p.Field(i)

		acc := accessorData{
			Field:        f.Name,
			Storage:      f.Names.Storage,
			Type:         f.StorageText,
			With:         f.Names.With,
			WithMut:      f.Names.WithMut,
			WithContents: f.Names.WithContents,
			BorrowedBy:   strings.Join(borrowers[i], ", "),
		}

		switch f.Role {
		case plan.RoleTail:
			data.Tails = append(data.Tails, acc)
		case plan.RoleSharedDependency:
			acc.Type = f.ContentText
			data.Shared = append(data.Shared, acc)
		case plan.RoleExclusiveDependency:
		}
	}

	recv := p.Names.Receiver

	for _, i := range p.Storage {
		f := p.Field(i)

		switch f.Role {
		case plan.RoleTail:
			data.Views = append(data.Views, viewData{Name: f.Names.Exported, Type: f.StorageText, Expr: recv + "." + f.Names.Storage})
			data.MutViews = append(data.MutViews, viewData{Name: f.Names.Exported, Type: "*" + f.StorageText, Expr: "&" + recv + "." + f.Names.Storage})
		case plan.RoleSharedDependency:
			data.Views = append(data.Views, viewData{Name: f.Names.Contents, Type: f.ContentText, Expr: recv + "." + f.Names.Storage})
		case plan.RoleExclusiveDependency:
		}
	}
}
