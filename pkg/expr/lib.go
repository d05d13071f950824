package expr

import (
	"bufio"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `headings` returns the markdown ATX headings in a string, without
		// their leading hashes.
		// Example: headings(page.body).exists(h, h.startsWith("Chapter")).
		cel.Function("headings",
			cel.Overload("headings_string", []*cel.Type{cel.StringType}, cel.ListType(cel.StringType),
				cel.UnaryBinding(func(text ref.Val) ref.Val {
					s, ok := text.(types.String).Value().(string)
					if !ok {
						return types.NewErr("headings: invalid string value")
					}

					return types.NewStringList(types.DefaultTypeAdapter, Headings(s))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// Headings returns the text of every markdown ATX heading in s. Lines
// inside fenced code blocks are skipped.
func Headings(s string) []string {
	var (
		hs    []string
		fence Fence
	)

	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if fence.Scan(scanner.Text()) {
			continue
		}

		if h, ok := heading(scanner.Text()); ok {
			hs = append(hs, h)
		}
	}

	return hs
}

func heading(line string) (string, bool) {
	line = strings.TrimSpace(line)

	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}

	if level == 0 || level > 6 {
		return "", false
	}

	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}

	text := strings.TrimSpace(rest)
	if closed := strings.TrimRight(text, "#"); closed == "" || strings.HasSuffix(closed, " ") {
		text = strings.TrimSpace(closed)
	}

	return text, text != ""
}
