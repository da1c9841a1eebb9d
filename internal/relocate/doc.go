// Package relocate implements the idempotent copy-then-delete move primitive
// against the object store. The executor never touches the catalog; advancing
// the location pointer after a confirmed move is the caller's job.
package relocate
