package plan

import (
	"fmt"
	"go/token"

	"selfref-generator/internal/common"
	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/match"
)

// ReservedField is the unexported field the generated type uses to mark
// itself consumed.
const ReservedField = "released"

// reservedIdents are used as locals in generated function bodies.
var reservedIdents = []string{ReservedField, "result", "err", "heads", "fn"}

// ComputeNames derives every generated identifier of a plan.
func ComputeNames(p *Plan) {
	name := p.Schema.Name

	p.Names = Names{
		Type:           name,
		Receiver:       match.ReceiverName(name),
		Constructor:    "New" + name,
		TryConstructor: "TryNew" + name,
		TryRecover:     "TryNew" + name + "OrRecover",
		Builder:        name + "Builder",
		TryBuilder:     name + "TryBuilder",
		Heads:          name + "Heads",
		Fields:         name + "Fields",
		MutFields:      name + "MutFields",
		Release:        "release" + name,
		File:           match.SnakeCase(name) + common.OutputSuffix,
	}

	for _, tp := range p.TypeParams {
		if tp.Name == p.Names.Receiver {
			p.Names.Receiver = "self"
		}
	}

	for i := range p.Fields {
		f := &p.Fields[i]
		exported := match.Exported(f.Name)

		f.Names = FieldNames{
			Exported:     exported,
			Storage:      storageName(f.Name),
			Param:        f.Name,
			Ref:          f.Name + "Ref",
			BuilderField: exported,
			With:         "With" + exported,
			WithMut:      "With" + exported + "Mut",
			WithContents: "With" + exported + "Contents",
			Contents:     exported + "Contents",
		}

		if !f.IsHead() {
			f.Names.Param = f.Name + "Builder"
			f.Names.BuilderField = exported + "Builder"
		}
	}
}

// storageName is the unexported name a field is stored under, so only the
// generated accessors reach it from outside the package.
func storageName(name string) string {
	storage := match.Unexported(name)
	if token.IsKeyword(storage) {
		storage += "Field"
	}

	return storage
}

// nameUse is one generated identifier inside a namespace.
type nameUse struct {
	name  string
	field string
	pos   token.Position
	what  string
}

// CheckNames verifies that generated identifiers do not clash with each
// other, with reserved identifiers, or with declarations already in the package.
func CheckNames(p *Plan, diags *diagnostic.Diagnostics) {
	source := p.Schema.Source

	for i := range p.Fields {
		f := &p.Fields[i]

		for _, r := range reservedIdents {
			if f.Name == r {
				d := diags.AddError("reserved_field_name",
					fmt.Sprintf("field name %s is reserved by the generated code", f.Name), source, f.Name, f.Pos)
				d.Suggest("rename the field")
			}
		}

		if f.Name != ReservedField && f.Names.Storage == ReservedField {
			d := diags.AddError("reserved_field_name",
				fmt.Sprintf("field %s would be stored as %s, which is reserved by the generated code", f.Name, ReservedField),
				source, f.Name, f.Pos)
			d.Suggest("rename the field")
		}
	}

	var locals, methods, builder, heads, views, mutViews []nameUse

	// Locals and parameters of the constructors, plus the package-level
	// names their bodies refer to.
	locals = append(locals,
		nameUse{name: p.Names.Type, what: "aggregate type"},
		nameUse{name: p.Names.Heads, what: "heads type"},
		nameUse{name: p.Names.Release, what: "release helper"},
	)

	for _, tp := range p.TypeParams {
		locals = append(locals, nameUse{name: tp.Name, what: "type parameter " + tp.Name})
	}

	methods = append(methods,
		nameUse{name: "With", what: "With method"},
		nameUse{name: "WithMut", what: "WithMut method"},
		nameUse{name: "IntoHeads", what: "IntoHeads method"},
		nameUse{name: "Close", what: "Close method"},
	)

	for i := range p.Fields {
		f := &p.Fields[i]
		use := func(name, what string) nameUse {
			return nameUse{name: name, field: f.Name, pos: f.Pos, what: what + " of field " + f.Name}
		}

		locals = append(locals, use(f.Names.Param, "parameter"))
		if !f.IsHead() {
			locals = append(locals, use(f.Name, "local"))
		}

		if f.IsTarget() {
			locals = append(locals, use(f.Names.Ref, "reference"))
		}

		// Storage fields and methods share the aggregate's selector namespace.
		methods = append(methods, use(f.Names.Storage, "storage field"))
		builder = append(builder, use(f.Names.BuilderField, "builder field"))

		if f.IsHead() {
			heads = append(heads, use(f.Names.Exported, "heads field"))
		}

		switch f.Role {
		case RoleTail:
			methods = append(methods, use(f.Names.With, "accessor"), use(f.Names.WithMut, "mutable accessor"))
			views = append(views, use(f.Names.Exported, "view field"))
			mutViews = append(mutViews, use(f.Names.Exported, "mutable view field"))
		case RoleSharedDependency:
			methods = append(methods, use(f.Names.WithContents, "contents accessor"))
			views = append(views, use(f.Names.Contents, "contents view field"))
		case RoleExclusiveDependency:
		}
	}

	for _, ns := range [][]nameUse{locals, methods, builder, heads, views, mutViews} {
		reportDuplicates(source, ns, diags)
	}

	checkPackageScope(p, diags)
}

func reportDuplicates(source string, uses []nameUse, diags *diagnostic.Diagnostics) {
	first := map[string]nameUse{}

	for _, u := range uses {
		prev, ok := first[u.name]
		if !ok {
			first[u.name] = u
			continue
		}

		d := diags.AddError("name_collision",
			fmt.Sprintf("generated identifier %s is used for both the %s and the %s", u.name, prev.what, u.what),
			source, u.field, u.pos)
		d.Suggest("rename one of the fields")
	}
}

// checkPackageScope looks up each package-level generated name in the
// package scope, ignoring files this generator wrote.
func checkPackageScope(p *Plan, diags *diagnostic.Diagnostics) {
	s := p.Schema
	if s.Scope == nil {
		return
	}

	n := p.Names

	for _, name := range []string{
		n.Type, n.Constructor, n.TryConstructor, n.TryRecover, n.Builder,
		n.TryBuilder, n.Heads, n.Fields, n.MutFields, n.Release,
	} {
		obj := s.Scope.Lookup(name)
		if obj == nil || !obj.Pos().IsValid() {
			continue
		}

		if s.Fset != nil && s.OwnFiles[s.Fset.Position(obj.Pos()).Filename] {
			continue
		}

		d := diags.AddError("generated_name_conflict",
			fmt.Sprintf("generated identifier %s is already declared in package %s", name, s.Package),
			s.Source, "", s.Pos)
		d.Suggest(fmt.Sprintf("rename the aggregate with %s <Name>", "//selfref:generate"))
	}
}
