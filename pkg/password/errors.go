package password

import "errors"

var (
	// ErrEmptyPassword is returned by Hash for empty input. Empty passwords
	// are rejected before hashing so a blank credential can never be stored.
	ErrEmptyPassword = errors.New("password: empty password")
)
