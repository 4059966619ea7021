package plan

import (
	"fmt"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/match"
	"selfref-generator/internal/schema"
)

// ParseDependencies parses the borrow list of the field at index self.
// Names resolve against fields[:self] only; the roles of the targets are
// promoted in place. Every problem is reported to diags and parsing goes on
// with the next dependency, so the returned edges are the ones that resolved.
//
// Grammar: dep {"," dep} [","], where dep = ["mut"] ident.
func ParseDependencies(
	tokens []schema.Token,
	self int,
	fields []FieldDescriptor,
	schemaName string,
	diags *diagnostic.Diagnostics,
) []DependencyEdge {
	p := &depParser{
		self:       self,
		fields:     fields,
		schemaName: schemaName,
		fieldName:  fields[self].Name,
		diags:      diags,
		seen:       map[int]bool{},
	}

	return p.parse(tokens)
}

type depParser struct {
	self       int
	fields     []FieldDescriptor
	schemaName string
	fieldName  string
	diags      *diagnostic.Diagnostics
	seen       map[int]bool
	edges      []DependencyEdge
}

func (p *depParser) parse(tokens []schema.Token) []DependencyEdge {
	var (
		mutTok         *schema.Token
		waitingOnComma bool
	)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok.Kind == schema.TokenIdent && waitingOnComma:
			p.errorf("expected_comma", tok, "unexpected identifier %q, expected comma", tok.Text)

			// Read it as the start of the next dependency.
			waitingOnComma = false
			i--

		case tok.IsMut():
			if mutTok != nil {
				p.errorf("double_mut", tok, "unexpected double %q", schema.MutKeyword)
				continue
			}

			mutTok = &tokens[i]

		case tok.Kind == schema.TokenIdent:
			p.resolve(tok, mutTok != nil)

			mutTok = nil
			waitingOnComma = true

		case tok.IsComma():
			switch {
			case mutTok != nil:
				p.errorf("dangling_mut", *mutTok, "%q must be followed by a field name", schema.MutKeyword)

				mutTok = nil
			case !waitingOnComma:
				p.errorf("extra_comma", tok, "unexpected extra comma")
			}

			waitingOnComma = false

		case tok.Kind == schema.TokenPunct:
			p.errorf("unexpected_token", tok, "unexpected punctuation %q, expected comma or identifier", tok.Text)

		default:
			p.errorf("unexpected_token", tok, "unexpected token %q, expected comma or identifier", tok.Text)
		}
	}

	if mutTok != nil {
		p.errorf("dangling_mut", *mutTok, "%q must be followed by a field name", schema.MutKeyword)
	}

	return p.edges
}

// resolve looks up a borrowed name and records the edge and role change.
func (p *depParser) resolve(tok schema.Token, mutable bool) {
	target := -1

	for i := range p.fields {
		if p.fields[i].Name == tok.Text {
			target = i
			break
		}
	}

	switch {
	case target < 0:
		d := p.errorf("unknown_field", tok,
			"unknown field %q; make sure it is spelled correctly and declared before %s", tok.Text, p.fieldName)

		known := make([]string, 0, p.self)
		for i := range p.fields[:p.self] {
			known = append(known, p.fields[i].Name)
		}

		if best, ok := match.Closest(tok.Text, known); ok {
			d.Suggest(fmt.Sprintf("did you mean %q?", best))
		}

		return

	case target == p.self:
		p.errorf("forward_reference", tok, "field %s cannot borrow itself", tok.Text)
		return

	case target > p.self:
		d := p.errorf("forward_reference", tok,
			"field %s is declared after %s; a field can only borrow fields declared before it", tok.Text, p.fieldName)
		d.Suggest(fmt.Sprintf("move %s above %s", tok.Text, p.fieldName))

		return
	}

	dep := &p.fields[target]

	switch {
	case mutable && dep.Role == RoleSharedDependency:
		p.errorf("borrow_mut_after_shared", tok,
			"cannot borrow %s mutably; it is already borrowed immutably", tok.Text)
		return

	case mutable && dep.Role == RoleExclusiveDependency:
		p.errorf("borrow_mut_twice", tok,
			"cannot borrow %s mutably twice; it is already exclusively borrowed", tok.Text)
		return

	case dep.Role == RoleExclusiveDependency:
		p.errorf("borrow_shared_after_mut", tok,
			"cannot borrow %s immutably; it is already exclusively borrowed", tok.Text)
		return

	case p.seen[target]:
		p.errorf("duplicate_borrow", tok, "%s is borrowed more than once by %s", tok.Text, p.fieldName)
		return
	}

	p.seen[target] = true

	if mutable {
		dep.Role = RoleExclusiveDependency
	} else {
		dep.Role = RoleSharedDependency
	}

	p.edges = append(p.edges, DependencyEdge{Target: target, Mutable: mutable, Pos: tok.Pos})
}

func (p *depParser) errorf(code string, tok schema.Token, format string, args ...any) *diagnostic.Diagnostic {
	return p.diags.AddError(code, fmt.Sprintf(format, args...), p.schemaName, p.fieldName, tok.Pos)
}
