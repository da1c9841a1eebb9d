// Package filecontext threads precomputed destination paths from the upload
// orchestrator to the storage provider within one request.
//
// The original system carried these assignments in ambient call-stack state;
// here the Scope is an explicit parameter on every call between orchestrator
// and provider. Isolation between concurrent requests falls out of each
// request holding its own Scope value.
package filecontext
