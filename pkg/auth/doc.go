// Package auth orchestrates credential issuance: registration, login, and
// verification of the signed session tokens carried by clients.
//
// The service is stateless between requests. No session table exists
// server-side; a session is the signed token itself, verified on each
// request with only the shared signing key. Persistent identity records live
// behind the Storage interface, and uniqueness of emails is enforced by the
// store (a unique index), not by check-then-insert logic here: the store's
// duplicate rejection is the authoritative answer under concurrent
// registration.
//
// Login failures stay distinguished at this level (ErrUserNotFound vs
// ErrInvalidCredentials) because the upstream HTTP layer decides whether to
// collapse them into one user-facing message. Token verification failures,
// by contrast, are collapsed to ErrUnauthenticated before leaving the
// service; the specific reason is only logged.
//
// Logout without a revocation store is client-side only: the cookie is
// cleared but an already-captured token stays cryptographically valid until
// expiry. Wiring a RevocationStore (see WithRevocationStore) closes that gap
// at the cost of a Redis lookup per verification.
package auth
