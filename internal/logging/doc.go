// Package logging builds the application slog logger and provides attribute
// helpers plus context-derived structured fields (object ID, pass name, request
// correlation ID) shared across components.
package logging
