// Package timezones is a selectable subtype backed by an embedded list of
// IANA zone names. It provides the option list, the subtype hooks and a small
// net/http handler that searches the list for select widgets that load their
// options lazily.
package timezones
