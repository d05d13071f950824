package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// DefaultSourceLines is the number of lines shown on each side of an error.
const DefaultSourceLines = 2

// NewPathBuilder returns a new [yaml.PathBuilder].
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a YAML error located either by [*token.Token] or by [*yaml.Path].
// When Source is set, the error message includes the surrounding lines.
type Error struct {
	Err         error
	Path        *yaml.Path
	Token       *token.Token
	Source      []byte
	SourceLines int
}

// NewError creates a new [Error].
func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err:         err,
		SourceLines: DefaultSourceLines,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ErrorOpt configures an [Error].
type ErrorOpt func(e *Error)

// WithSourceLines sets the number of context lines.
func WithSourceLines(lines int) ErrorOpt {
	return func(e *Error) {
		e.SourceLines = lines
	}
}

// WithPath sets the path to the offending node.
func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

// WithToken sets the offending token.
func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

// WithSource sets the YAML source the error refers to.
func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// Wrap applies opts to err if it is an [Error], and returns err.
func Wrap(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range opts {
			opt(yamlErr)
		}
	}

	return err
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}

	tk := e.Token
	if tk == nil && e.Path != nil && e.Source != nil {
		tk = tokenFromPath(e.Source, e.Path)
	}

	switch {
	case tk != nil && tk.Position != nil:
		msg := fmt.Sprintf("[%d:%d] %v", tk.Position.Line, tk.Position.Column, e.Err)
		if excerpt := e.excerpt(tk.Position.Line); excerpt != "" {
			msg += "\n" + excerpt
		}

		return msg

	case e.Path != nil:
		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	}

	return e.Err.Error()
}

// excerpt returns the source lines around line, marking line itself.
func (e *Error) excerpt(line int) string {
	if e.Source == nil || line < 1 {
		return ""
	}

	lines := strings.Split(strings.TrimRight(string(e.Source), "\n"), "\n")
	if line > len(lines) {
		return ""
	}

	first := max(line-e.SourceLines, 1)
	last := min(line+e.SourceLines, len(lines))
	width := len(fmt.Sprint(last))

	var b strings.Builder
	for n := first; n <= last; n++ {
		marker := " "
		if n == line {
			marker = ">"
		}

		fmt.Fprintf(&b, "%s %*d | %s\n", marker, width, n, lines[n-1])
	}

	return strings.TrimRight(b.String(), "\n")
}

// tokenFromPath returns the token of the key at path, or of the value if
// the path does not end in a mapping key.
func tokenFromPath(source []byte, path *yaml.Path) *token.Token {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil
	}

	if tk := keyToken(file, path); tk != nil {
		return tk
	}

	return node.GetToken()
}

// keyToken looks up the key token for path in its parent mapping.
// FilterFile returns the value node, but errors read better on the key.
func keyToken(file *ast.File, path *yaml.Path) *token.Token {
	s := path.String()

	lastDot := strings.LastIndex(s, ".")
	if lastDot == -1 || lastDot < strings.LastIndex(s, "[") {
		return nil
	}

	parentPath, err := yaml.PathString(s[:lastDot])
	if err != nil {
		return nil
	}

	parent, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	mapping, ok := parent.(*ast.MappingNode)
	if !ok {
		return nil
	}

	for _, v := range mapping.Values {
		if v.Key.String() == s[lastDot+1:] {
			return v.Key.GetToken()
		}
	}

	return nil
}
