package auth

import "errors"

var (
	// ErrEmailAlreadyExists is returned when registering an email the store
	// already holds, whether detected up front or by the store's unique
	// index during a concurrent race.
	ErrEmailAlreadyExists = errors.New("auth: email already exists")

	// ErrUserNotFound is returned by Login for unknown emails and by
	// Storage implementations for missing records.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrInvalidCredentials is returned by Login when the password does not
	// match the stored hash.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUnauthenticated is the single rejection WhoAmI exposes for any
	// token problem: missing, malformed, expired, forged, or revoked.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrStorageFailure wraps store transport/availability failures so
	// callers can tell an outage apart from a domain rejection.
	ErrStorageFailure = errors.New("auth: storage failure")
)
