// Package objectstore defines the remote object store interface restow moves
// objects through, with an S3-compatible backend (minio-go) and an in-memory
// implementation for tests.
//
// Keys are hierarchical string paths. The interface is intentionally small:
// head, copy, delete, put, and paginated list are the only operations the
// relocation engine needs.
package objectstore
