package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"selfref-generator/internal/analyze"
	"selfref-generator/internal/driver"
	"selfref-generator/internal/plan"
	"selfref-generator/internal/schema"
)

func newAnalyzeCmd(f *rootFlags) *cobra.Command {
	var (
		dump   bool
		export string
	)

	cmd := &cobra.Command{
		Use:   "analyze [packages...]",
		Short: "Print the computed plan of every schema",
		Long: `Print each schema's fields with their roles and borrows, the storage
order and the head fields. --dump prints the full report structures.
--export writes the analyzed schemas to a YAML schema file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.newSession(cmd, args)
			if err != nil {
				return err
			}

			res, err := s.driver.Run(cmd.Context())
			if err != nil {
				return err
			}

			printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

			if export != "" {
				if err := exportSchemas(export, res); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", export)
			}

			out := cmd.OutOrStdout()
			dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

			for _, p := range res.Plans() {
				report := plan.GenerateReport(p)

				if dump {
					dumper.Fdump(out, report)
					continue
				}

				fmt.Fprint(out, plan.FormatReport(report))
				printChecked(out, p)
				fmt.Fprintln(out)
			}

			return diagnosticsError(res.Diagnostics)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump report structures with go-spew")
	cmd.Flags().StringVar(&export, "export", "", "write the analyzed schemas to this YAML file")

	return cmd
}

// printChecked lists the type checker's view of each field, when the
// schema was loaded from Go source.
func printChecked(w io.Writer, p *plan.Plan) {
	ts := analyze.NewTypeStringer(p.Schema.PkgPath)
	header := false

	for i := range p.Schema.Fields {
		f := &p.Schema.Fields[i]
		if f.GoType == nil {
			continue
		}

		if !header {
			fmt.Fprintln(w, "Checked:")
			header = true
		}

		fmt.Fprintf(w, "  %s %s\n", f.Name, ts.TypeString(f))
	}
}

// exportSchemas writes every loaded schema, valid or not, to path.
func exportSchemas(path string, res *driver.Result) error {
	schemas := make([]*schema.Schema, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		schemas = append(schemas, o.Schema)
	}

	f, err := schema.Export(schemas)
	if err != nil {
		return fmt.Errorf("exporting schemas: %w", err)
	}

	return schema.WriteFile(f, path)
}
