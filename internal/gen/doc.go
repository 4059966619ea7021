// Package gen writes the Go source of a self-referencing aggregate from a plan.
//
// Generation uses text/template + go/format. The template receives fully
// prepared strings (types, parameter lists, argument lists), so it only
// lays code out.
//
// Generated API for an aggregate Document:
//   - Document: unexported fields in storage order plus a released flag
//   - NewDocument / DocumentBuilder.Build: eager construction
//   - TryNewDocument, TryNewDocumentOrRecover / DocumentTryBuilder: fallible
//     construction that releases partial state and hands the heads back
//   - WithX, WithXMut for fields nothing borrows; WithXContents for fields
//     borrowed immutably; nothing for fields borrowed mutably
//   - With, WithMut: every accessible field at once
//   - IntoHeads, Close: teardown in dependency order
package gen
