// Package testsupport provides shared fixtures for restow tests: temp-backed
// catalog stores and seeding helpers for entities, objects, and links.
package testsupport
