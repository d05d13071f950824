package book

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/macropower/flip/pkg/expr"
)

// Page is a single page of a [Book].
type Page struct {
	Title string
	Body  string
	// Number is the 1-based position of the page in the source document,
	// before any filtering.
	Number int
}

func newPage(number int, body string) Page {
	return Page{
		Number: number,
		Title:  titleOf(body),
		Body:   body,
	}
}

// Words returns the number of whitespace separated words in the body.
func (p Page) Words() int {
	return len(strings.Fields(p.Body))
}

// Slug returns a lowercase, ASCII-friendly identifier derived from the
// title. Diacritics are removed and runs of other characters become a
// single hyphen.
func (p Page) Slug() string {
	var b strings.Builder

	dash := false
	for _, r := range strings.ToLower(removeDiacritics(p.Title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)

			dash = false

			continue
		}

		if !dash && b.Len() > 0 {
			b.WriteByte('-')

			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Vars returns the CEL variables that describe the page.
func (p Page) Vars() map[string]any {
	return map[string]any{
		"number": int64(p.Number),
		"title":  p.Title,
		"body":   p.Body,
		"words":  int64(p.Words()),
	}
}

// titleOf returns the first markdown heading in body, or else its first
// non-empty line.
func titleOf(body string) string {
	title := ""

	if hs := expr.Headings(body); len(hs) > 0 {
		title = hs[0]
	} else {
		for line := range strings.Lines(body) {
			if s := strings.TrimSpace(line); s != "" {
				title = s
				break
			}
		}
	}

	return norm.NFC.String(title)
}

func removeDiacritics(in string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return in
	}

	return out
}
