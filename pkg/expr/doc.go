// Package expr provides CEL (Common Expression Language) functionality
// for filtering the pages of a book.
//
// Expressions have access to a single variable, `page`, a map with keys:
//   - `number` (int): 1-based position of the page in the source
//   - `title` (string): the page title
//   - `body` (string): the page text
//   - `words` (int): the number of words in the body
//
// On top of the standard CEL strings, math and lists extensions, the
// environment provides `headings(string) list<string>`, which returns the
// markdown headings found in a string.
package expr
