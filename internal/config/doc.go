// Package config loads, normalizes, and validates restow's TOML configuration.
//
// Configuration sections by subsystem:
//   - Store: S3-compatible object store connection and public URL base
//   - Catalog: SQLite catalog database location
//   - Reconciler: paging and scan-cap tuning for the batch passes
//   - Paths: log directory
//   - Logging: log format and level
//
// Store credentials may be supplied via RESTOW_STORE_ACCESS_KEY and
// RESTOW_STORE_SECRET_KEY instead of the config file.
package config
