// Package pathkey derives canonical object-store keys from catalog lineage.
//
// Sanitize turns free-text titles into safe lowercase path segments, and
// BuildTargetKey joins a lineage chain (group → sub-group → item) with a file
// name into the deterministic key the reconciler compares against an object's
// current location. Both are pure functions; a given input always produces the
// same key.
package pathkey
