// Package authorization centralizes the ownership and visibility decisions that
// were previously inlined in every handler.
//
// Layering:
// - pure domain service: no storage, no transport
// - callers build a Scope, pass the authenticated Identity, and act on Decision
//
// Boundary notes:
// - Keep this package free of adapter imports; the HTTP layer translates
//   Decision into a flash message plus redirect.
package authorization
