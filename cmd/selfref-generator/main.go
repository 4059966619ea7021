// Package main provides the CLI entrypoint for selfref-generator.
//
// selfref-generator reads struct schemas whose fields borrow from earlier
// fields and generates, for each, an aggregate type that owns all fields
// together: constructors that build fields in order, accessors that only
// expose what is safe to touch, and teardown in dependency order.
//
// Schemas are declared in Go source:
//
//	//selfref:generate Document
//	type documentSchema[This any] struct {
//		source *string
//		words  []Word[This] `borrows:"source"`
//	}
//
// or in a YAML schema file passed with --schema.
package main

func main() {
	Execute()
}
