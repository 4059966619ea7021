// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking for "did you mean" suggestions.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - TokenizeIdent: splits identifiers into lowercase words
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the best known name for an unresolved one
package match
