// Package accountservice implements registration, login, sessions, and the
// per-user dashboard inside the identity-access context.
//
// Layering:
// - application: the account Service using explicit ports
// - ports: stable boundaries for persistence, sessions, hashing, activity reads
// - adapters: memory, postgres, redis sessions, bcrypt hasher
//
// Boundary notes:
// - Password hashing and session storage stay behind ports; the application
//   layer never sees bcrypt or redis directly.
// - Cross-context activity reads (books submitted, reviews written) come in
//   through the ActivityReader port and are wired in bootstrap.
package accountservice
