// Package backend provides the backend manager: a registry of execution
// engines keyed by identifier, pre-flight capability checks, result
// normalization, bounded retry for transient hardware failures, and
// bounded-concurrency parameter sweeps.
package backend
