// Package client is a typed client for the Timeweb Cloud AI agent API.
//
// Every operation is a single HTTP exchange against an agent identified by
// its access ID. Results are decoded into the types of package api; every
// failure is an *api.Error whose Kind callers can match on:
//
//	c, err := client.New(client.Config{Token: token})
//	resp, err := c.CallAgent(ctx, agentID, "hello")
//	if errors.Is(err, api.ErrRateLimited) {
//		// back off
//	}
//
// A Client holds only immutable configuration and a transport handle and is
// safe for concurrent use. It never retries and never caches state between
// calls.
package client
