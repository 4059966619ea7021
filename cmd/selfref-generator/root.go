package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"selfref-generator/internal/config"
	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/driver"
)

// rootFlags are the flags shared by every command.
type rootFlags struct {
	cfgFile  string
	logLevel string
	verbose  bool

	schemaFiles []string
	outDir      string
	compat      bool
	noDoc       bool
	scopeMarker string
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "selfref-generator",
		Short: "Generate self-referencing aggregates from struct schemas",
		Long: `selfref-generator turns a struct schema whose fields borrow from
earlier fields into an aggregate that owns every field at once.

Fields marked with a borrows tag receive a reference into the fields
they name when they are built. The generated code builds fields in
declaration order, exposes only the fields it is safe to touch and
releases fields before the fields they borrow from.

Commands:
  selfref-generator gen ./...       # write *_selfref.go files
  selfref-generator check ./...     # report diagnostics only
  selfref-generator analyze ./...   # print roles and storage order
  selfref-generator watch ./...     # regenerate on change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.cfgFile, "config", "c", config.DefaultPath, "config file path")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	pf.StringSliceVar(&f.schemaFiles, "schema", nil, "YAML schema file (repeatable)")
	pf.StringVar(&f.outDir, "out", "", "write generated files to this directory")
	pf.BoolVar(&f.compat, "compat", false, "require pointer types for every borrowed field")
	pf.BoolVar(&f.noDoc, "no-doc", false, "omit documentation comments from generated code")
	pf.StringVar(&f.scopeMarker, "scope-marker", "", "type parameter name standing for the aggregate")

	rootCmd.AddCommand(
		newGenCmd(f),
		newCheckCmd(f),
		newAnalyzeCmd(f),
		newWatchCmd(f),
	)

	return rootCmd
}

// session is what every command starts from.
type session struct {
	cfg    *config.Config
	logger zerolog.Logger
	driver *driver.Driver
}

// newSession loads the configuration, applies flags over it and builds
// the driver. Positional arguments replace the configured packages.
func (f *rootFlags) newSession(cmd *cobra.Command, args []string) (*session, error) {
	flags := cmd.Flags()

	cfg, err := config.LoadWithFallback(f.cfgFile, flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("out") {
		cfg.Out = f.outDir
	}

	if flags.Changed("compat") {
		cfg.Compat = f.compat
	}

	if flags.Changed("no-doc") {
		cfg.NoDoc = f.noDoc
	}

	if flags.Changed("scope-marker") {
		cfg.ScopeMarker = f.scopeMarker
	}

	if flags.Changed("schema") {
		cfg.Schemas = f.schemaFiles
	}

	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}

	if f.verbose {
		cfg.Logging.Level = "debug"
	}

	if len(args) > 0 {
		cfg.Packages = args
	}

	if len(cfg.Packages) == 0 && len(cfg.Schemas) == 0 {
		cfg.Packages = []string{"."}
	}

	logger := cfg.Logging.Logger(cmd.ErrOrStderr())

	d, err := driver.New(driver.Options{
		Packages:    cfg.Packages,
		Schemas:     cfg.Schemas,
		OutDir:      cfg.Out,
		ScopeMarker: cfg.ScopeMarker,
		Defaults:    cfg.Options(),
		Jobs:        cfg.Jobs,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, driver: d}, nil
}

// printDiagnostics writes every diagnostic, errors first.
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) {
	for _, group := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
		for _, d := range group {
			fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
		}
	}
}

// diagnosticsError summarizes the errors of a run.
func diagnosticsError(diags diagnostic.Diagnostics) error {
	if diags.IsValid() {
		return nil
	}

	return fmt.Errorf("%d error(s) found", len(diags.Errors))
}
