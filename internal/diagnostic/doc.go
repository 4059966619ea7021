// Package diagnostic provides structured errors and warnings for the
// self-referencing struct generator.
//
// Every problem the engine finds is an analysis-time diagnostic:
//   - Reference resolution errors (unknown or forward-declared fields)
//   - Aliasing conflicts between shared and exclusive borrows
//   - Structural errors (too few fields, no dependent field, unsupported shapes)
//   - Type-shape errors (dependency targets without a stable referent)
//
// Diagnostics carry the schema, the field and the source position of the
// token that caused them, plus optional suggestions.
package diagnostic
