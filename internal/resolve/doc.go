// Package resolve locates a stored object's current key through an ordered
// chain of independent strategies: the explicit metadata field, the recorded
// public URL, the legacy content-hash naming convention, and finally a bounded
// scan of the store listing. Every candidate is verified against the store
// before being returned.
package resolve
