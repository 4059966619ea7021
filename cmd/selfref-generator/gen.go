package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenCmd(f *rootFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate aggregate files",
		Long: `Analyze the given packages (default: the configured packages, or the
current directory) and schema files, then write a *_selfref.go file for
every valid schema. Files whose content is unchanged are not rewritten.

Schemas with errors are reported and produce no output; the command then
exits non-zero after writing the valid ones.`,
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

			if dryRun {
				for _, file := range res.Files() {
					fmt.Fprintf(cmd.OutOrStdout(), "would write %s (%d bytes)\n", file.Path(), len(file.Content))
				}

				return diagnosticsError(res.Diagnostics)
			}

			written, err := s.driver.Write(res)
			if err != nil {
				return err
			}

			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}

			s.logger.Info().
				Int("schemas", len(res.Outcomes)).
				Int("written", len(written)).
				Msg("generation finished")

			return diagnosticsError(res.Diagnostics)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without writing")

	return cmd
}
