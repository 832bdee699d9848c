// Package auth resolves caller identities from bearer tokens and evaluates
// role-based authorization decisions.
//
// Identity resolution is lazy: the middleware always runs, attaches a
// verified identity to the request context when a valid token is present,
// and otherwise lets the request continue as anonymous. Whether anonymous
// access is acceptable is decided per operation by the policy evaluator,
// which is invoked explicitly inside each handler once the handler has the
// resource state (ownership, page status) the decision depends on.
//
// Authorization is fail-closed: absent an explicit allow rule the outcome
// is deny, and every deny is the same uniform "Forbidden" regardless of
// whether the target resource exists.
package auth
