package plan

import (
	"fmt"
	"strings"
)

// Report is a printable summary of a plan.
type Report struct {
	Name    string
	Source  string
	File    string
	Fields  []FieldReport
	Storage []string
	Heads   []string
	Options []string
}

// FieldReport describes one field of a plan.
type FieldReport struct {
	Name    string
	Type    string
	Storage string
	Role    string
	Borrows []string
}

// GenerateReport creates a report from a plan.
func GenerateReport(p *Plan) *Report {
	r := &Report{
		Name:   p.Names.Type,
		Source: p.Schema.Source,
		File:   p.Names.File,
	}

	if p.Options.Compat {
		r.Options = append(r.Options, "compat")
	}

	if p.Options.NoDoc {
		r.Options = append(r.Options, "no_doc")
	}

	for i := range p.Fields {
		f := &p.Fields[i]

		fr := FieldReport{
			Name:    f.Name,
			Type:    f.TypeText,
			Storage: f.StorageText,
			Role:    f.Role.String(),
		}

		for _, e := range f.Dependencies {
			target := p.Fields[e.Target].Name
			if e.Mutable {
				target = "mut " + target
			}

			fr.Borrows = append(fr.Borrows, target)
		}

		r.Fields = append(r.Fields, fr)
	}

	for _, i := range p.Storage {
		r.Storage = append(r.Storage, p.Fields[i].Name)
	}

	for _, i := range p.Heads {
		r.Heads = append(r.Heads, p.Fields[i].Name)
	}

	return r
}

// FormatReport formats a report as human-readable text.
func FormatReport(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== %s (from %s) -> %s ===\n", r.Name, r.Source, r.File)

	if len(r.Options) > 0 {
		fmt.Fprintf(&sb, "Options: %s\n", strings.Join(r.Options, ", "))
	}

	sb.WriteString("Fields:\n")

	for _, f := range r.Fields {
		fmt.Fprintf(&sb, "  %s %s [%s]", f.Name, f.Storage, f.Role)

		if len(f.Borrows) > 0 {
			fmt.Fprintf(&sb, " borrows %s", strings.Join(f.Borrows, ", "))
		}

		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Storage: %s\n", strings.Join(r.Storage, ", "))
	fmt.Fprintf(&sb, "Heads: %s\n", strings.Join(r.Heads, ", "))

	return sb.String()
}
