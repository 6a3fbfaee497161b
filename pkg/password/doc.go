// Package password wraps bcrypt hashing behind a small Hasher type.
//
// bcrypt output is self-describing: the stored form embeds the salt and cost
// factor, so Verify needs no configuration beyond the hash itself. The cost
// is fixed at construction; raising it later only affects newly stored
// hashes, existing ones keep verifying with their embedded cost.
//
// Verify is deliberately boolean. A malformed stored hash and a wrong
// password look the same to callers, which keeps credential checks from
// leaking storage-level details.
package password
