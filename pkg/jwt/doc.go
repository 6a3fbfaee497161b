// Package jwt issues and verifies the signed session tokens used by the
// authentication service.
//
// Tokens are standard HS256 JWTs (RFC 7519): base64url(header) "."
// base64url(claims) "." base64url(signature), signed with HMAC-SHA256 over
// the first two segments. The signature covers the full claim set, so
// tampering with any field invalidates the token. Verification compares
// signatures in constant time and distinguishes three failure modes via
// sentinel errors:
//
//   - ErrMalformedToken: the token cannot be parsed at all
//   - ErrInvalidSignature: the payload was signed with a different key or
//     modified after signing
//   - ErrExpiredToken: the signature is genuine but the token is past its
//     embedded expiry
//
// Callers that only care about "authenticated or not" can treat all three
// the same; the split exists so internal logging and tests can tell a
// naturally ended session from a forged token.
package jwt
