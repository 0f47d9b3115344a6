// Package auth handles bearer tokens on both sides of the agent API.
//
// On the client side it renders the Authorization header and inspects JWT
// access tokens (without verifying them) so that an expired token can be
// reported before the first call fails.
//
// On the server side, used by the mock agent, authentication is a chain of
// authenticators with three-outcome voting: each returns Yes (identity
// found), No (credentials invalid) or Abstain (can't handle). Middleware
// runs the chain, applies the rate limiter and stores the identity in the
// request context.
package auth
