// Package inspector extracts member descriptors from target types. Two
// interchangeable backends share one contract: the static backend reads
// type information through the Go compiler front-end and is the primary
// strategy; the reflect backend works on live reflect.Type values supplied
// by the caller and is optional.
package inspector

import "github.com/typedmock/typedmock/internal/models"

// Backend is the shared inspection contract. Implementations must return
// members in a stable discovery order and never produce two members with
// the same name.
type Backend interface {
	// Name identifies the backend in diagnostics.
	Name() string
	// Inspect builds a descriptor for the fully-qualified type identifier.
	// Unexported members are skipped unless includePrivate is set.
	Inspect(fqn string, includePrivate bool) (*models.ClassDescriptor, error)
}
