// Package book loads documents and splits them into pages.
//
// A page ends at a line consisting only of the separator (by default
// "---") or at a form feed. Pages that contain only whitespace are dropped,
// and the remaining pages can be filtered with a CEL expression (see
// [github.com/macropower/flip/pkg/expr]). A [Watcher] reloads a book when its
// file changes.
package book
