// Package services holds cross-cutting helpers shared by restow components:
// the sentinel error taxonomy with Wrap for classified error construction, and
// context annotation helpers for correlation identifiers.
package services
