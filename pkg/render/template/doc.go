// Package template defines the renderer interface the engine draws its
// field, form and view wrappers with. Implementations live in subpackages.
package template
