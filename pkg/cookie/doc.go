// Package cookie maps session tokens to and from their wire cookie
// representation.
//
// The Manager carries default attributes (path, HttpOnly, SameSite, max age)
// applied to every cookie it writes; per-call options override them. The
// defaults encode the session security contract: HttpOnly keeps the token
// out of reach of page scripts, SameSite=Lax blocks cross-site POSTs from
// carrying the session, and the max age bounds how long a leaked cookie
// stays useful.
//
// A missing cookie is reported as ErrCookieNotFound rather than a generic
// error because anonymous requests are a normal case, not a failure.
package cookie
