// Package model defines the declarative form description shared by every
// other package: field descriptors, normalized form definitions, and the
// plain key/value objects that are rendered, edited and extracted.
//
// A Field is addressed by its Code, which must be unique within a Form. The
// Type selects the handler set (see pkg/fieldtypes); Subtype selects the
// option source and hooks for select and const fields (see pkg/selectable).
package model
