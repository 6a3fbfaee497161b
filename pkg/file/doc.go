// Package file stores uploaded binary assets (profile pictures) and hands
// back opaque references.
//
// The auth core never inspects asset content; it only persists the reference
// returned by Save. Two backends implement Storage: LocalStorage for
// development and S3Storage for S3-compatible object stores. Both confine
// writes to their configured root/bucket and derive public URLs the same
// way, so swapping backends is a wiring change only.
package file
