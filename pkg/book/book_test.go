package book_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/flip/pkg/book"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input      string
		opts       []book.Opt
		wantTitles []string
		wantBodies []string
		wantErr    error
	}{
		"single page": {
			input:      "# Hello\n\nworld\n",
			wantTitles: []string{"Hello"},
			wantBodies: []string{"# Hello\n\nworld"},
		},
		"default separator": {
			input:      "# One\nfirst\n---\n# Two\nsecond\n",
			wantTitles: []string{"One", "Two"},
			wantBodies: []string{"# One\nfirst", "# Two\nsecond"},
		},
		"separator with surrounding spaces": {
			input:      "one\n  ---  \ntwo",
			wantTitles: []string{"one", "two"},
		},
		"form feed": {
			input:      "one\f two\n\fthree",
			wantTitles: []string{"one", "two", "three"},
		},
		"empty pages dropped": {
			input:      "---\n\n---\none\n---\n   \n---\ntwo\n---\n",
			wantTitles: []string{"one", "two"},
		},
		"crlf line endings": {
			input:      "one\r\n---\r\ntwo\r\n",
			wantTitles: []string{"one", "two"},
			wantBodies: []string{"one", "two"},
		},
		"custom separator": {
			input:      "one\n---\nstill one\n%%\ntwo",
			opts:       []book.Opt{book.WithSeparator("%%")},
			wantTitles: []string{"one", "two"},
		},
		"separator inside fenced code": {
			input:      "# Intro\n\n```yaml\nkind: A\n---\nkind: B\n```\n---\n# Two",
			wantTitles: []string{"Intro", "Two"},
			wantBodies: []string{"# Intro\n\n```yaml\nkind: A\n---\nkind: B\n```", "# Two"},
		},
		"separator inside tilde fence": {
			input:      "~~~~\n---\n~~~\n---\n~~~~\none\n---\ntwo",
			wantTitles: []string{"~~~~", "two"},
		},
		"heading inside fenced code": {
			input:      "```sh\n# install\nmake\n```\n\n# Setup",
			wantTitles: []string{"Setup"},
		},
		"unclosed fence runs to end": {
			input:      "one\n```\n---\ntwo",
			wantTitles: []string{"one"},
		},
		"form feed closes fence": {
			input:      "```\none\fthree\n---\nfour",
			wantTitles: []string{"```", "three", "four"},
		},
		"heading later in page wins": {
			input:      "intro line\n\n## Real Title\n",
			wantTitles: []string{"Real Title"},
		},
		"where filter": {
			input:      "# A\n---\n# B\n---\n# C",
			opts:       []book.Opt{book.WithWhere(`page.number != 2`)},
			wantTitles: []string{"A", "C"},
		},
		"where filter on body": {
			input:      "# A\nkeep\n---\n# B\ndrop",
			opts:       []book.Opt{book.WithWhere(`page.body.contains("keep")`)},
			wantTitles: []string{"A"},
		},
		"empty document": {
			input:   "\n\n  \n",
			wantErr: book.ErrEmptyBook,
		},
		"everything filtered": {
			input:   "# A\n---\n# B",
			opts:    []book.Opt{book.WithWhere(`page.words > 100`)},
			wantErr: book.ErrEmptyBook,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b, err := book.Parse(t.Context(), "test.md", []byte(tc.input), tc.opts...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			titles := make([]string, 0, b.Len())
			bodies := make([]string, 0, b.Len())

			for _, p := range b.Pages {
				titles = append(titles, p.Title)
				bodies = append(bodies, p.Body)
			}

			assert.Equal(t, tc.wantTitles, titles)
			if tc.wantBodies != nil {
				assert.Equal(t, tc.wantBodies, bodies)
			}
		})
	}
}

func TestParse_NumbersBeforeFiltering(t *testing.T) {
	t.Parallel()

	b, err := book.Parse(t.Context(), "n", []byte("a\n---\nb\n---\nc"),
		book.WithWhere(`page.title != "b"`))
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	assert.Equal(t, 1, b.Pages[0].Number)
	assert.Equal(t, 3, b.Pages[1].Number)
}

func TestParse_InvalidWhere(t *testing.T) {
	t.Parallel()

	_, err := book.Parse(t.Context(), "n", []byte("a"), book.WithWhere(`page.number +`))
	require.ErrorContains(t, err, "where")

	_, err = book.Parse(t.Context(), "n", []byte("a"), book.WithWhere(`page.title`))
	require.ErrorContains(t, err, "page 1")
}

func TestBook_Page(t *testing.T) {
	t.Parallel()

	b, err := book.Parse(t.Context(), "n", []byte("a\n---\nb"))
	require.NoError(t, err)

	p, ok := b.Page(2)
	require.True(t, ok)
	assert.Equal(t, "b", p.Body)

	_, ok = b.Page(0)
	assert.False(t, ok)

	_, ok = b.Page(3)
	assert.False(t, ok)
}

func TestBook_Summary(t *testing.T) {
	t.Parallel()

	b := &book.Book{Pages: make([]book.Page, 12), Size: 3400}
	assert.Equal(t, "12 pages, 3.4 kB", b.Summary())

	b = &book.Book{Pages: make([]book.Page, 1), Size: 10}
	assert.Equal(t, "1 page, 10 B", b.Summary())
}

func TestBook_Render(t *testing.T) {
	t.Parallel()

	b, err := book.Parse(t.Context(), "n", []byte("one\n---\ntwo\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf, "***"))
	assert.Equal(t, "one\n\n***\n\ntwo\n", buf.String())
}

func TestPage(t *testing.T) {
	t.Parallel()

	p := book.Page{Number: 4, Title: "Ça Va? Crème Brûlée!", Body: "three  little\nwords"}

	assert.Equal(t, "ca-va-creme-brulee", p.Slug())
	assert.Equal(t, 3, p.Words())
	assert.Equal(t, map[string]any{
		"number": int64(4),
		"title":  "Ça Va? Crème Brûlée!",
		"body":   "three  little\nwords",
		"words":  int64(3),
	}, p.Vars())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "story.md")
	require.NoError(t, os.WriteFile(path, []byte("# One\n---\n# Two\n"), 0o600))

	b, err := book.Load(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, "story.md", b.Name)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, int64(16), b.Size)

	_, err = book.Load(t.Context(), filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
