// Package analyze discovers schemas in Go source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// struct types preceded by a //selfref:generate directive and turns each
// of them into a schema.Schema: fields in declaration order, the raw
// tokens of their `borrows:"..."` tags with exact positions, and the
// checked field types when the package type-checks.
package analyze
