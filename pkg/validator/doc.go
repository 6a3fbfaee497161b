// Package validator provides rule-based validation for user input.
//
// Rules are plain values pairing a check with the error to report when the
// check fails. Apply runs a set of rules and returns ValidationErrors, which
// implements error and keeps per-field messages so an HTTP layer can render
// them next to form fields.
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.MinLength("password", password, 8),
//	)
package validator
