package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(f *rootFlags) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Report diagnostics without writing",
		Long: `Run the full analysis and print every diagnostic. Exits non-zero when
any schema has errors. With --verify, also fails when a generated file on
disk differs from what gen would write.`,
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

			if err := diagnosticsError(res.Diagnostics); err != nil {
				return err
			}

			if verify {
				stale, err := s.driver.Verify(res)
				if err != nil {
					return err
				}

				for _, path := range stale {
					fmt.Fprintf(cmd.ErrOrStderr(), "out of date: %s\n", path)
				}

				if len(stale) > 0 {
					return fmt.Errorf("%d generated file(s) out of date, run gen", len(stale))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d schema(s) ok\n", len(res.Outcomes))

			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "fail when generated files are out of date")

	return cmd
}
