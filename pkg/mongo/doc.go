// Package mongo manages the MongoDB connection for the identity store.
//
// It wraps the official driver with environment-driven configuration,
// connection retries for transient startup failures (common with managed
// clusters), and a ping-based health check suitable for readiness probes.
// Collection-level code lives with the feature that owns it; this package
// only hands out connected clients.
package mongo
