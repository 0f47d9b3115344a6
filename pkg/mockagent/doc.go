// Package mockagent implements a deterministic, in-memory fake of the
// Timeweb Cloud AI agent API for tests and local development.
//
// The handler serves every agent endpoint the client uses. Chat and text
// completions echo the last user input as "echo: <text>". Conversations,
// items and stored responses live in memory; conversations are evicted in
// least-recently-used order once MaxConversations is reached.
//
// Agents whose access ID starts with "forbidden-" answer 403, which lets
// tests exercise the forbidden path without extra configuration.
package mockagent
