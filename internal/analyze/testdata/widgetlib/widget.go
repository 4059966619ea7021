// Package widget lives in a directory named otherwise, so importers
// cannot guess its name from the path.
package widget

// Part is a piece of an assembly.
type Part struct {
	N int
}
