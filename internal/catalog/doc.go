// Package catalog persists the relational catalog restow reconciles the object
// store against: the entity hierarchy, stored object records, and the link
// rows that associate objects with entity slots.
//
// The store is SQLite-backed with an embedded schema and version check. Older
// deployments named the link table "attachments"; Open probes for it once and
// caches the resolved name, so no per-item schema queries ever run.
package catalog
