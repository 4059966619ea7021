package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"

	"selfref-generator/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir overrides the directory of every generated file. Empty keeps
	// each file next to its schema.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	// The no_doc option of a schema turns them off for that schema only.
	GenerateComments bool
	// DebugUnformatted writes the raw template output next to the intended
	// file when it fails to format.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		GenerateComments: true,
		DebugUnformatted: true,
	}
}

// Generator renders plans into Go source.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the base name of the file (e.g. "document_selfref.go").
	Filename string
	// Dir is the directory the file belongs in.
	Dir string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the full path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders one plan. The output depends only on the plan, so
// generating twice yields identical bytes.
func (g *Generator) Generate(p *plan.Plan) (*GeneratedFile, error) {
	if p == nil || p.Schema == nil {
		return nil, fmt.Errorf("generating: nil plan")
	}

	dir := p.Schema.Dir
	if g.config.OutputDir != "" {
		dir = g.config.OutputDir
	}

	file := &GeneratedFile{Filename: p.Names.File, Dir: dir}

	var buf bytes.Buffer
	if err := aggregateTemplate.Execute(&buf, g.buildTemplateData(p)); err != nil {
		return nil, fmt.Errorf("executing template for %s: %w", p.Names.Type, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugUnformatted {
			_ = writeDebugUnformatted(dir, file.Filename, buf.Bytes())
		}

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting %s: %w", file.Filename, err)
	}

	file.Content = formatted

	return file, nil
}

// GenerateAll renders every plan, in order.
func (g *Generator) GenerateAll(plans []*plan.Plan) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(plans))

	for _, p := range plans {
		file, err := g.Generate(p)
		if err != nil {
			return nil, err
		}

		files = append(files, *file)
	}

	return files, nil
}
