package plan

import (
	"go/token"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/schema"
)

// Config holds configuration for planning.
type Config struct {
	// Defaults are merged into every schema's own options.
	Defaults schema.Options
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{}
}

// Planner runs the analysis pipeline on schemas.
type Planner struct {
	config Config
}

// NewPlanner creates a new Planner.
func NewPlanner(config Config) *Planner {
	return &Planner{config: config}
}

// Plan runs every stage on one schema. On errors the returned plan is nil
// and the diagnostics describe every problem of the first failing stage.
func (pl *Planner) Plan(s *schema.Schema) (*Plan, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	if s == nil {
		diags.AddError("schema_is_nil", "schema is nil", "", "", token.Position{})
		return nil, diags
	}

	CheckShape(s, &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	p := &Plan{
		Schema:  s,
		Fields:  NewDescriptors(s),
		Options: s.Options.Merge(pl.config.Defaults),
	}

	for i := range p.Fields {
		p.Fields[i].Dependencies = ParseDependencies(s.Fields[i].Tokens, i, p.Fields, s.Source, &diags)
	}

	if diags.HasErrors() {
		return nil, diags
	}

	Classify(s, p.Fields, &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	Layout(p, &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	ComputeNames(p)

	CheckNames(p, &diags)
	if diags.HasErrors() {
		return nil, diags
	}

	return p, diags
}

// Build plans one schema with the default configuration.
func Build(s *schema.Schema) (*Plan, diagnostic.Diagnostics) {
	return NewPlanner(DefaultConfig()).Plan(s)
}

// NewDescriptors creates one descriptor per schema field, in declaration
// order, with every role set to RoleTail.
func NewDescriptors(s *schema.Schema) []FieldDescriptor {
	fields := make([]FieldDescriptor, len(s.Fields))

	for i := range s.Fields {
		f := &s.Fields[i]

		fields[i] = FieldDescriptor{
			Name:     f.Name,
			Index:    i,
			Type:     f.Type,
			TypeText: exprString(f.Type),
			GoType:   f.GoType,
			Role:     RoleTail,
			Pos:      f.Pos,
		}
	}

	return fields
}
