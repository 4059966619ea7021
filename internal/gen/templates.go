package gen

import (
	"text/template"
)

// Template for the aggregate file.

var aggregateTemplate = template.Must(template.New("aggregate").Parse(`{{.Header}}

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{$d := .}}
{{if .Doc}}// {{.Names.Type}} is a self-referencing aggregate generated from {{.Source}}.
// Fields are stored in reverse declaration order, so every field is
// released before the fields it borrows from.
{{end}}type {{.Names.Type}}{{.TypeParams}} struct {
{{range .Storage}}	{{.Name}} {{.Type}}
{{end}}	released bool
}

{{if .Doc}}// {{.Names.Constructor}} constructs a {{.Names.Type}}, building fields in declaration order.
//
// Arguments:
{{range .Params}}//   - {{.Name}}: {{.Doc}}
{{end}}{{end}}func {{.Names.Constructor}}{{.TypeParams}}(
{{range .Params}}	{{.Name}} {{.Type}},
{{end}}) *{{.SelfType}} {
	result := &{{.SelfType}}{}
{{range .Steps}}{{if .IsHead}}	result.{{.Field}} = {{.Param}}
{{else}}	{{.Local}} := {{.Param}}({{.Args}})
	result.{{.Field}} = {{.Local}}
{{end}}{{if .Ref}}	{{.Ref}} := result.{{.Field}}
{{end}}{{end}}
	return result
}

{{if .Doc}}// {{.Names.TryConstructor}} is {{.Names.Constructor}} with builders that can fail.
// On failure the fields built so far are released and the error is returned.
{{end}}func {{.Names.TryConstructor}}{{.TypeParams}}(
{{range .Params}}	{{.Name}} {{.TryType}},
{{end}}) (*{{.SelfType}}, error) {
	result, _, err := {{.Names.TryRecover}}({{.CallArgs}})
	return result, err
}

{{if .Doc}}// {{.Names.TryRecover}} is {{.Names.TryConstructor}} that also hands back the
// head fields when a builder fails. Fields built before the failure are
// released in reverse order; close errors are joined to the builder error.
//
// Arguments:
{{range .Params}}//   - {{.Name}}: {{.Doc}}
{{end}}{{end}}func {{.Names.TryRecover}}{{.TypeParams}}(
{{range .Params}}	{{.Name}} {{.TryType}},
{{end}}) (*{{.SelfType}}, *{{.HeadsType}}, error) {
	result := &{{.SelfType}}{}
{{range .Steps}}{{if .IsHead}}	result.{{.Field}} = {{.Param}}
{{else}}	{{.Local}}, err := {{.Param}}({{.Args}})
	if err != nil {
{{if .FailRelease}}		err = {{$d.Names.Release}}(err, {{.FailRelease}})
{{end}}		return nil, &{{$d.HeadsType}}{ {{.FailHeads}} }, err
	}
	result.{{.Field}} = {{.Local}}
{{end}}{{if .Ref}}	{{.Ref}} := result.{{.Field}}
{{end}}{{end}}
	return result, nil, nil
}

{{if .Doc}}// {{.Names.Release}} closes every value that implements io.Closer, in
// order, and joins the close errors to err.
{{end}}func {{.Names.Release}}(err error, values ...any) error {
	errs := []error{err}
	for _, v := range values {
		if c, ok := v.({{.IoPkg}}.Closer); ok {
			if cerr := c.Close(); cerr != nil {
				errs = append(errs, cerr)
			}
		}
	}
	if len(errs) == 1 {
		return err
	}
	return {{.ErrorsPkg}}.Join(errs...)
}

{{if .Doc}}// {{.Names.Builder}} holds the arguments of {{.Names.Constructor}}.
{{end}}type {{.Names.Builder}}{{.TypeParams}} struct {
{{range .Params}}	{{.BuilderField}} {{.Type}}
{{end}}}

{{if .Doc}}// Build calls {{.Names.Constructor}} with the builder's fields.
{{end}}func ({{.BuilderReceiver}} {{.BuilderType}}) Build() *{{.SelfType}} {
	return {{.Names.Constructor}}{{.TypeArgs}}({{.BuilderCallArgs}})
}

{{if .Doc}}// {{.Names.TryBuilder}} holds the arguments of {{.Names.TryConstructor}}.
{{end}}type {{.Names.TryBuilder}}{{.TypeParams}} struct {
{{range .Params}}	{{.BuilderField}} {{.TryType}}
{{end}}}

{{if .Doc}}// TryBuild calls {{.Names.TryConstructor}} with the builder's fields.
{{end}}func ({{.BuilderReceiver}} {{.TryBuilderType}}) TryBuild() (*{{.SelfType}}, error) {
	return {{.Names.TryConstructor}}{{.TypeArgs}}({{.BuilderCallArgs}})
}

{{if .Doc}}// TryBuildOrRecover calls {{.Names.TryRecover}} with the builder's fields.
{{end}}func ({{.BuilderReceiver}} {{.TryBuilderType}}) TryBuildOrRecover() (*{{.SelfType}}, *{{.HeadsType}}, error) {
	return {{.Names.TryRecover}}{{.TypeArgs}}({{.BuilderCallArgs}})
}

{{if .Doc}}// {{.Names.Heads}} holds the fields of a {{.Names.Type}} that borrow nothing.
{{end}}type {{.Names.Heads}}{{.TypeParams}} struct {
{{range .Heads}}	{{.Name}} {{.Type}}
{{end}}}

{{if .Doc}}// {{.Names.Fields}} is a view of every accessible field of a {{.Names.Type}}.
{{end}}type {{.Names.Fields}}{{.TypeParams}} struct {
{{range .Views}}	{{.Name}} {{.Type}}
{{end}}}

{{if .Doc}}// {{.Names.MutFields}} points at every field of a {{.Names.Type}} that nothing borrows.
{{end}}type {{.Names.MutFields}}{{.TypeParams}} struct {
{{range .MutViews}}	{{.Name}} {{.Type}}
{{end}}}
{{range .Tails}}
{{if $d.Doc}}// {{.With}} calls fn with {{.Field}}.
{{end}}func ({{$d.Names.Receiver}} *{{$d.SelfType}}) {{.With}}(fn func({{.Field}} {{.Type}})) {
	if {{$d.Names.Receiver}}.released {
		panic("{{$d.UsePanic}}")
	}
	fn({{$d.Names.Receiver}}.{{.Storage}})
}

{{if $d.Doc}}// {{.WithMut}} calls fn with a pointer to {{.Field}}. The pointer must not
// be kept after fn returns.
{{end}}func ({{$d.Names.Receiver}} *{{$d.SelfType}}) {{.WithMut}}(fn func({{.Field}} *{{.Type}})) {
	if {{$d.Names.Receiver}}.released {
		panic("{{$d.UsePanic}}")
	}
	fn(&{{$d.Names.Receiver}}.{{.Storage}})
}
{{end}}{{range .Shared}}
{{if $d.Doc}}// {{.WithContents}} calls fn with the contents of {{.Field}}, which is
// borrowed by {{.BorrowedBy}} and cannot be replaced.
{{end}}func ({{$d.Names.Receiver}} *{{$d.SelfType}}) {{.WithContents}}(fn func({{.Field}} {{.Type}})) {
	if {{$d.Names.Receiver}}.released {
		panic("{{$d.UsePanic}}")
	}
	fn({{$d.Names.Receiver}}.{{.Storage}})
}
{{end}}
{{if .Doc}}// With calls fn with every accessible field.
{{end}}func ({{.Names.Receiver}} *{{.SelfType}}) With(fn func({{.FieldsType}})) {
	if {{.Names.Receiver}}.released {
		panic("{{.UsePanic}}")
	}
	fn({{.FieldsType}}{
{{range .Views}}		{{.Name}}: {{.Expr}},
{{end}}	})
}

{{if .Doc}}// WithMut calls fn with pointers to every field that nothing borrows.
// The pointers must not be kept after fn returns.
{{end}}func ({{.Names.Receiver}} *{{.SelfType}}) WithMut(fn func({{.MutFieldsType}})) {
	if {{.Names.Receiver}}.released {
		panic("{{.UsePanic}}")
	}
	fn({{.MutFieldsType}}{
{{range .MutViews}}		{{.Name}}: {{.Expr}},
{{end}}	})
}

{{if .Doc}}// IntoHeads releases every field that borrows from another, in reverse
// declaration order, and returns the remaining fields. The {{.Names.Type}}
// cannot be used afterwards.
{{end}}func ({{.Names.Receiver}} *{{.SelfType}}) IntoHeads() ({{.HeadsType}}, error) {
	if {{.Names.Receiver}}.released {
		panic("{{.UsePanic}}")
	}
	err := {{.Names.Release}}(nil, {{.Dependents}})
	heads := {{.HeadsType}}{ {{.HeadsFromStorage}} }
	*{{.Names.Receiver}} = {{.SelfType}}{released: true}
	return heads, err
}

{{if .Doc}}// Close releases every field in storage order, so fields are closed before
// the fields they borrow from. Calling Close again does nothing.
{{end}}func ({{.Names.Receiver}} *{{.SelfType}}) Close() error {
	if {{.Names.Receiver}}.released {
		return nil
	}
	err := {{.Names.Release}}(nil, {{.AllFields}})
	*{{.Names.Receiver}} = {{.SelfType}}{released: true}
	return err
}
`))
