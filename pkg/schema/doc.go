// Package schema is a declarative, data-driven request validation and
// coercion engine.
//
// A Set describes the expected fields for the three input locations of a
// request (JSON body, path parameters, query string). Each Field carries a
// kind, a required flag, an optional default, and its constraints. Sets are
// pure descriptions: evaluating the same Set against the same input always
// yields the same coerced values or the same error list.
//
// Evaluation walks fields in declaration order and does not short-circuit:
// every violation in every location is collected, so a caller sees the
// complete error set in one round trip. A field that is absent, optional,
// and without a default is omitted from the result entirely, which lets
// partial-update handlers distinguish "not supplied" from "explicitly
// cleared".
package schema
