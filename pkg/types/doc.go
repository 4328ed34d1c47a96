// Package types defines the gate and circuit value types, the Backend
// capability interface, execution options and results, and the standard
// error values shared across the Quanta toolkit.
package types
