// Package sanitizer normalizes untrusted user input before it reaches
// business logic or storage.
//
// The package is intentionally small: it only covers the transformations the
// authentication flow needs. Normalization is applied once at the service
// boundary so the rest of the codebase can treat values as canonical.
package sanitizer
