// Package plan turns a schema into the Plan consumed by code generation.
//
// Pipeline, run once per schema:
//  1. Shape checks: embedded, blank and missing fields, type parameters
//  2. Dependency parsing: each field's borrow list, left to right, against
//     the fields declared before it; roles are promoted as borrows resolve
//  3. Classification: at least two fields and at least one dependent field
//  4. Layout: storage order, scope erasure and heap-stability checks
//  5. Naming: every generated identifier is unique and free in the package
//
// Each stage reports every problem it detects. The pipeline stops after the
// first stage that reported an error, so later stages may rely on the
// invariants of earlier ones. In particular a dependency always targets an
// earlier field, so the dependency graph is acyclic and needs no check.
package plan
