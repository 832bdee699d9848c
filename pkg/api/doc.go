// Package api defines the domain types and the error model shared by every
// layer of the folio backend.
//
// The wire format uses two envelopes: successful responses carry
// {"result": ...} and failures carry {"error": ...}, where the error value
// is either a short message string or, for validation failures, a list of
// {field, message} objects.
package api
