// Package orchestrator wires the definition registry, the handler registries,
// the options source and the engine behind a single entry point.
package orchestrator
