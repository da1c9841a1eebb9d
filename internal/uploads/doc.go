// Package uploads implements the request-time write path: the orchestrator
// computes canonical destination paths for a validated write and queues them
// on the request's filecontext scope, and the provider consumes those entries
// to name the objects it stores. Files arriving without a queued context get
// default uuid-based names instead of failing.
package uploads
