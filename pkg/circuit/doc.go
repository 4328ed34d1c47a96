// Package circuit provides the fluent builder for constructing validated
// circuits, pre-built circuit templates for common algorithms, and an
// OpenQASM 2.0 codec for the textual circuit description exchanged with
// external callers and remote backends.
package circuit
