// Package demo is a fixture module for pipeline tests.
package demo

import "context"

// Svc is the valid generation target.
type Svc struct{}

// Ping reports liveness.
func (s *Svc) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Version reports the build version.
func (s *Svc) Version() string {
	return "dev"
}

// Store is a second generation target.
type Store struct{}

// Get returns the stored value for key.
func (s *Store) Get(key string) (string, bool) {
	return "", false
}
