package types

import "errors"

// Circuit construction errors. Always local: the caller must fix the
// circuit or instruction and retry construction.
var (
	ErrValidation = errors.New("circuit validation failed")
)

// Backend/circuit mismatch errors. Surfaced to the caller with no automatic
// remediation; silently dropping or substituting gates would change the
// semantics of the circuit.
var (
	ErrUnsupportedGate = errors.New("gate not supported by backend")
	ErrQubitLimit      = errors.New("circuit exceeds backend qubit limit")
)

// Registry misuse errors. Programming errors, surfaced immediately.
var (
	ErrBackendNotFound  = errors.New("backend not found")
	ErrDuplicateBackend = errors.New("backend already registered")
)

// ErrBackendContract marks a broken backend implementation, such as counts
// that do not sum to the requested shots. Fatal, never retried.
var ErrBackendContract = errors.New("backend contract violation")

// ErrTransient marks a recoverable connectivity failure from a
// hardware-backed backend. The manager retries these a small bounded number
// of times with backoff before surfacing a terminal failure.
var ErrTransient = errors.New("transient backend error")
