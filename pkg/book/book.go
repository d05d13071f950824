package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/flip/pkg/expr"
	"github.com/macropower/flip/pkg/log"
)

const (
	// DefaultSeparator is the line that ends a page.
	DefaultSeparator = "---"

	// StdinPath is the path that makes [Load] read standard input.
	StdinPath = "-"

	formFeed = '\f'
)

var (
	// ErrEmptyBook is returned when a document has no pages left after
	// splitting and filtering.
	ErrEmptyBook = errors.New("book has no pages")

	tracer = otel.Tracer("book")
)

// Book is a document split into pages.
type Book struct {
	Name  string
	Pages []Page
	// Size is the size of the source document in bytes.
	Size int64
}

// Len returns the number of pages.
func (b *Book) Len() int {
	return len(b.Pages)
}

// Page returns page n, where n is 1-based. It returns false if n is out of
// range.
func (b *Book) Page(n int) (Page, bool) {
	if n < 1 || n > len(b.Pages) {
		return Page{}, false
	}

	return b.Pages[n-1], true
}

// Summary returns a short human readable description, e.g. "12 pages, 3.4 kB".
func (b *Book) Summary() string {
	unit := "pages"
	if len(b.Pages) == 1 {
		unit = "page"
	}

	//nolint:gosec // G115: size is never negative.
	return fmt.Sprintf("%d %s, %s", len(b.Pages), unit, humanize.Bytes(uint64(b.Size)))
}

// Render writes every page to w, with sep on its own line between pages.
func (b *Book) Render(w io.Writer, sep string) error {
	for i, p := range b.Pages {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n%s\n\n", sep); err != nil {
				return fmt.Errorf("write separator: %w", err)
			}
		}

		if _, err := io.WriteString(w, p.Body+"\n"); err != nil {
			return fmt.Errorf("write page %d: %w", p.Number, err)
		}
	}

	return nil
}

// Opt configures how a [Book] is parsed.
type Opt func(*options)

type options struct {
	separator string
	where     string
}

// WithSeparator sets the page separator line. An empty separator keeps the
// default.
func WithSeparator(sep string) Opt {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// WithWhere sets a CEL expression that pages must match to be kept.
func WithWhere(expression string) Opt {
	return func(o *options) {
		o.where = expression
	}
}

// Load reads the file at path and parses it. A path of [StdinPath] reads
// standard input.
func Load(ctx context.Context, path string, opts ...Opt) (*Book, error) {
	ctx, span := tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	var (
		data []byte
		err  error
		name = filepath.Base(path)
	)

	if path == StdinPath {
		name = "stdin"
		data, err = io.ReadAll(os.Stdin)
	} else {
		//nolint:gosec // G304: Reading the file the user asked for.
		data, err = os.ReadFile(path)
	}

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	b, err := Parse(ctx, name, data, opts...)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return b, nil
}

// Parse splits data into pages.
func Parse(ctx context.Context, name string, data []byte, opts ...Opt) (*Book, error) {
	_, span := tracer.Start(ctx, "parse", trace.WithAttributes(
		attribute.String("name", name),
		attribute.Int("bytes", len(data)),
	))
	defer span.End()

	o := &options{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(o)
	}

	pages := split(string(data), o.separator)

	if o.where != "" {
		var err error

		pages, err = filter(pages, o.where)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("pages", len(pages)))

	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyBook)
	}

	log.WithContext(ctx).DebugContext(ctx, "parsed book",
		slog.String("name", name),
		slog.Int("pages", len(pages)),
	)

	return &Book{
		Name:  name,
		Pages: pages,
		Size:  int64(len(data)),
	}, nil
}

// split breaks text into non-empty pages.
func split(text, sep string) []Page {
	var (
		pages   []Page
		current []string
		fence   expr.Fence
	)

	flush := func() {
		body := strings.TrimRight(strings.Join(current, "\n"), " \t\n")
		body = strings.TrimLeft(body, "\n")
		current = current[:0]

		if strings.TrimSpace(body) == "" {
			return
		}

		pages = append(pages, newPage(len(pages)+1, body))
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	for line := range strings.SplitSeq(text, "\n") {
		parts := strings.Split(line, string(formFeed))
		for i, part := range parts {
			if i > 0 {
				flush()

				fence = expr.Fence{}
			}

			// Separators inside fenced code are content.
			if !fence.Open() && strings.TrimSpace(part) == sep {
				flush()
				continue
			}

			fence.Scan(part)

			current = append(current, part)
		}
	}

	flush()

	return pages
}

func filter(pages []Page, where string) ([]Page, error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, err
	}

	prg, err := env.Compile(where)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}

	kept := make([]Page, 0, len(pages))

	for _, p := range pages {
		ok, err := prg.Match(p.Vars())
		if err != nil {
			return nil, fmt.Errorf("where: page %d: %w", p.Number, err)
		}

		if ok {
			kept = append(kept, p)
		}
	}

	return kept, nil
}
