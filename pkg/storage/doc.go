// Package storage defines the persistence contracts consumed by the
// handlers and the authorization pipeline, with implementations in the
// memory and postgres subpackages.
//
// The core pipeline performs no storage I/O itself; handlers fetch
// whatever resource state an authorization decision needs (a user's role,
// a page's status) through these interfaces and pass it to the policy
// evaluator.
package storage
