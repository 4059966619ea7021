package schema

import (
	"fmt"
	"go/token"
	"strings"

	"selfref-generator/internal/diagnostic"
	"selfref-generator/internal/match"
)

// Directive is the comment prefix that marks a struct type as a schema.
const Directive = "//selfref:generate"

// TagKey is the struct tag key holding a field's dependency declaration.
const TagKey = "borrows"

// Option names accepted after the directive.
const (
	OptionCompat = "compat"
	OptionNoDoc  = "no_doc"
)

// schemaSuffix is trimmed from a schema type name to derive the aggregate name.
const schemaSuffix = "Schema"

// IsDirective reports whether a comment line is the generate directive.
func IsDirective(comment string) bool {
	return comment == Directive || strings.HasPrefix(comment, Directive+" ") || strings.HasPrefix(comment, Directive+"\t")
}

// ParseDirective reads the arguments of a directive comment: an optional
// aggregate name followed by comma-separated options. pos is the position
// of the comment. Problems are reported to diags against the schema name.
func ParseDirective(comment string, pos token.Position, source string, diags *diagnostic.Diagnostics) (string, Options) {
	args := strings.TrimPrefix(comment, Directive)
	tokens := Tokenize(args, advance(pos, len(Directive)))

	var (
		name           string
		opts           Options
		expectingComma bool
		sawOption      bool
	)

	for i, tok := range tokens {
		switch {
		case tok.Kind == TokenIdent && !expectingComma:
			switch tok.Text {
			case OptionCompat:
				opts.Compat = true
			case OptionNoDoc:
				opts.NoDoc = true
			default:
				if i == 0 && IsValidIdent(tok.Text) {
					name = tok.Text
					continue
				}

				d := diags.AddError("unknown_option",
					fmt.Sprintf("unknown option %q, expected %q or %q", tok.Text, OptionCompat, OptionNoDoc),
					source, "", tok.Pos)
				if best, ok := match.Closest(tok.Text, []string{OptionCompat, OptionNoDoc}); ok {
					d.Suggest(fmt.Sprintf("did you mean %q?", best))
				}
			}

			sawOption = true
			expectingComma = true

		case tok.Kind == TokenIdent:
			diags.AddError("expected_comma",
				fmt.Sprintf("unexpected identifier %q, expected comma", tok.Text), source, "", tok.Pos)

		case tok.IsComma():
			if !expectingComma {
				diags.AddError("extra_comma", "unexpected punctuation, expected option name", source, "", tok.Pos)
				continue
			}

			expectingComma = false

		case tok.Kind == TokenPunct:
			diags.AddError("unexpected_token",
				fmt.Sprintf("unknown punctuation %q, expected comma", tok.Text), source, "", tok.Pos)

		default:
			diags.AddError("unexpected_token",
				fmt.Sprintf("unknown syntax %q, expected option name", tok.Text), source, "", tok.Pos)
		}
	}

	if sawOption && !expectingComma {
		diags.AddError("extra_comma", "trailing comma after options", source, "", pos)
	}

	return name, opts
}

// DefaultName derives the aggregate name from a schema type name:
// "documentSchema" becomes "Document".
func DefaultName(source string) string {
	name := strings.TrimSuffix(source, schemaSuffix)
	if name == "" || name == source {
		return ""
	}

	return match.Exported(name)
}
