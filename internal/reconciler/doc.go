// Package reconciler drives the batch passes over the catalog: relocating
// every stored object whose key disagrees with its canonical lineage-derived
// key, and repairing corrupt link rows. Both passes support a side-effect-free
// dry-run, isolate per-item failures, and are safe to re-run; re-invocation is
// the retry mechanism.
package reconciler
