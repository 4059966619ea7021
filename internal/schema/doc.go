// Package schema defines the input model of the generator: an ordered list
// of named fields, each with a declared Go type and the raw tokens of its
// dependency declaration.
//
// Schemas come from two places:
//   - Go source: a struct type preceded by a //selfref:generate directive,
//     whose fields carry a `borrows:"..."` struct tag (see package analyze).
//   - YAML schema files, loaded by LoadFile/Parse in this package.
//
// # Directive
//
//	//selfref:generate Document compat,no_doc
//	type documentSchema[This any] struct {
//	    source *string
//	    words  []Word[This] `borrows:"source"`
//	    cursor *int
//	    reader *Reader[This] `borrows:"mut cursor, source"`
//	}
//
// The optional first word names the generated aggregate. Without it the
// schema type name is used with a trailing "Schema" removed and its first
// letter upper-cased. The options are:
//   - compat: dependency targets must be spelled *T; their type does not
//     need to be resolvable
//   - no_doc: omit documentation comments from the generated file
//
// # YAML schema file
//
//	version: "1"
//	package: demo
//	imports:
//	  - path: strings
//	structs:
//	  - name: Document
//	    type_params:
//	      - name: This
//	        constraint: any
//	    options: [no_doc]
//	    fields:
//	      - name: source
//	        type: "*string"
//	      - name: words
//	        type: "[]Word[This]"
//	        borrows: source
//	      - name: cursor
//	        type: "*int"
//	      - name: reader
//	        type: "*Reader[This]"
//	        borrows: [mut cursor, source]
package schema
