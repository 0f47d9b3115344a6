// Package transport defines the HTTP exchange used by the twcai client and
// the middleware chain around it.
//
// The client hands a fully prepared [Request] to a [Doer] and receives the
// status, headers and complete body back. Error classification happens in
// the client, so a Doer only fails when no response was received at all.
//
// # Middleware
//
// Middleware wraps a Doer with cross-cutting concerns. Built-in middleware
// provides panic recovery, request ID assignment (X-Request-ID), in-flight
// tracking and structured logging via log/slog. Callers can substitute the
// Doer entirely, which is how tests fake the network.
package transport
