// Package sample is a fixture tree for resolver tests.
package sample

import "sample/m"

// P is defined at the package root.
type P struct {
	ID int
}

// Borrowed re-exports a type defined in a subpackage; wildcard resolution
// must not treat it as defined here.
type Borrowed = m.M

// Helper is a function, not a type.
func Helper() int { return 1 }

type hidden struct{}

var _ = hidden{}
