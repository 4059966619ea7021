package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"selfref-generator/internal/driver"
)

func newWatchCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Regenerate whenever a source or schema file changes",
		Long: `Generate once, then watch the analyzed package directories and schema
files and regenerate on every change until interrupted. Diagnostics are
printed after each run; errors do not stop watching.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.newSession(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return s.driver.Watch(ctx, func(res *driver.Result, written []string, err error) {
				if err != nil {
					s.logger.Error().Err(err).Msg("generation failed")
					return
				}

				printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

				s.logger.Info().
					Int("schemas", len(res.Outcomes)).
					Int("written", len(written)).
					Int("errors", len(res.Diagnostics.Errors)).
					Msg("regenerated")
			})
		},
	}
}
