// Package httpserver wraps net/http.Server with sane timeouts, structured
// logging and graceful shutdown on SIGINT/SIGTERM or context cancellation.
package httpserver
