// Package algorithm implements hybrid quantum-classical orchestrators.
// A variational eigensolver and a QAOA max-cut solver alternate circuit
// evaluation through the backend manager with classical parameter
// updates, and a Grover driver runs amplitude-amplified search. The
// classical side is pluggable through the Optimizer interface.
package algorithm
