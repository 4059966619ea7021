// Package driver runs the generator over a set of packages and schema
// files: load, plan, generate, then write or verify.
package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"selfref-generator/internal/analyze"
	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/gen"
	"selfref-generator/internal/plan"
	"selfref-generator/internal/schema"
)

// writeCacheSize bounds the number of remembered output hashes.
const writeCacheSize = 1024

// Options configures a Driver.
type Options struct {
	// Dir is the directory patterns and relative schema paths resolve from.
	Dir string
	// Packages are Go package patterns to analyze.
	Packages []string
	// Schemas are YAML schema files.
	Schemas []string
	// OutDir overrides where generated files go.
	OutDir string
	// ScopeMarker is the type parameter name standing for the aggregate.
	ScopeMarker string
	// Defaults are merged into every schema's options.
	Defaults schema.Options
	// Jobs bounds how many schemas are planned at once.
	Jobs int
}

// Driver runs the pipeline. It remembers what it wrote, so a long-lived
// Driver (watch mode) skips files whose content did not change.
type Driver struct {
	opts      Options
	logger    zerolog.Logger
	planner   *plan.Planner
	generator *gen.Generator
	written   *lru.Cache[string, [sha256.Size]byte]
}

// New creates a Driver.
func New(opts Options, logger zerolog.Logger) (*Driver, error) {
	if opts.ScopeMarker == "" {
		opts.ScopeMarker = schema.DefaultScopeMarker
	}

	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}

	cache, err := lru.New[string, [sha256.Size]byte](writeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating write cache: %w", err)
	}

	return &Driver{
		opts:      opts,
		logger:    logger,
		planner:   plan.NewPlanner(plan.Config{Defaults: opts.Defaults}),
		generator: gen.NewGenerator(gen.DefaultGeneratorConfig()),
		written:   cache,
	}, nil
}

// Outcome is the result for one schema. Plan and File are nil when the
// schema has errors.
type Outcome struct {
	Schema      *schema.Schema
	Plan        *plan.Plan
	File        *gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics
}

// Result is the outcome of one run.
type Result struct {
	// Outcomes are in load order: packages first, then schema files.
	Outcomes []Outcome
	// Diagnostics are the load diagnostics followed by every schema's.
	Diagnostics diagnostic.Diagnostics
	// WatchPaths are the directories and files a watcher should follow.
	WatchPaths []string
}

// Files returns the generated files of every valid schema.
func (r *Result) Files() []gen.GeneratedFile {
	var files []gen.GeneratedFile

	for _, o := range r.Outcomes {
		if o.File != nil {
			files = append(files, *o.File)
		}
	}

	return files
}

// Plans returns the plans of every valid schema.
func (r *Result) Plans() []*plan.Plan {
	var plans []*plan.Plan

	for _, o := range r.Outcomes {
		if o.Plan != nil {
			plans = append(plans, o.Plan)
		}
	}

	return plans
}

// Run loads every input, then plans and generates each schema. Schemas
// are independent, so they run concurrently; results keep load order.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	schemas, res, err := d.load()
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(schemas))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Jobs)

	for i, s := range schemas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcomes[i] = d.process(s)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Outcomes = outcomes
	for _, o := range outcomes {
		res.Diagnostics.Merge(o.Diagnostics)
	}

	return res, nil
}

// process plans and generates one schema. Problems with the schema are
// reported in the outcome's diagnostics; only cancellation stops a run.
func (d *Driver) process(s *schema.Schema) Outcome {
	out := Outcome{Schema: s}
	logger := d.logger.With().Str("schema", s.Source).Logger()

	p, diags := d.planner.Plan(s)
	out.Diagnostics = diags

	if p == nil {
		logger.Debug().
			Strs("fields", analyze.NewTypeStringer(s.PkgPath).FieldPaths(s)).
			Int("errors", len(diags.Errors)).
			Msg("schema rejected")

		return out
	}

	file, err := d.generator.Generate(p)
	if err != nil {
		out.Diagnostics.AddError("generate_failed", err.Error(), s.Source, "", s.Pos)
		logger.Warn().Err(err).Msg("generation failed")

		return out
	}

	out.Plan = p
	out.File = file

	logger.Debug().Str("file", file.Path()).Int("fields", len(p.Fields)).Msg("schema planned")

	return out
}

// load collects schemas from packages and schema files.
func (d *Driver) load() ([]*schema.Schema, *Result, error) {
	res := &Result{}

	var schemas []*schema.Schema

	watch := map[string]bool{}

	if len(d.opts.Packages) > 0 {
		a := analyze.NewAnalyzer(analyze.Config{
			Dir:         d.opts.Dir,
			OutDir:      d.opts.OutDir,
			ScopeMarker: d.opts.ScopeMarker,
		})

		loaded, err := a.LoadPackages(d.opts.Packages...)
		if err != nil {
			return nil, nil, fmt.Errorf("loading packages: %w", err)
		}

		res.Diagnostics.Merge(*a.Diagnostics())

		for _, pkg := range loaded.Packages {
			d.logger.Debug().Str("package", pkg.Path).Int("schemas", len(pkg.Schemas)).Msg("package loaded")

			schemas = append(schemas, pkg.Schemas...)
			if pkg.Dir != "" {
				watch[pkg.Dir] = true
			}
		}
	}

	for _, path := range d.opts.Schemas {
		if !filepath.IsAbs(path) && d.opts.Dir != "" {
			path = filepath.Join(d.opts.Dir, path)
		}

		loaded, diags, err := schema.LoadSchemas(path, d.opts.OutDir, d.opts.ScopeMarker)
		if err != nil {
			return nil, nil, fmt.Errorf("loading schema file: %w", err)
		}

		res.Diagnostics.Merge(*diags)
		schemas = append(schemas, loaded...)
		watch[path] = true
	}

	for p := range watch {
		res.WatchPaths = append(res.WatchPaths, p)
	}

	sort.Strings(res.WatchPaths)

	return schemas, res, nil
}

// Write writes every generated file of res and returns the paths actually
// written. Files whose content this Driver already wrote, or that already
// match the disk, are skipped.
func (d *Driver) Write(res *Result) ([]string, error) {
	var written []string

	for _, file := range res.Files() {
		path := file.Path()
		sum := sha256.Sum256(file.Content)

		if prev, ok := d.written.Get(path); ok && prev == sum {
			d.logger.Debug().Str("file", path).Msg("unchanged, skipped")
			continue
		}

		changed, err := gen.WriteFile(file)
		if err != nil {
			return written, err
		}

		d.written.Add(path, sum)

		if changed {
			d.logger.Info().Str("file", path).Msg("written")
			written = append(written, path)
		}
	}

	return written, nil
}

// Verify returns the paths whose content on disk differs from res.
func (d *Driver) Verify(res *Result) ([]string, error) {
	var stale []string

	for _, file := range res.Files() {
		isStale, err := gen.Stale(file)
		if err != nil {
			return nil, err
		}

		if isStale {
			stale = append(stale, file.Path())
		}
	}

	return stale, nil
}

// Forget drops the remembered hash of a path, so the next Write checks
// the disk again.
func (d *Driver) Forget(path string) {
	d.written.Remove(path)
}
