package expr

import "strings"

// Fence tracks fenced code blocks across consecutive markdown lines.
// The zero value is outside any block.
type Fence struct {
	char byte
	size int
}

// Open reports whether the last scanned line left a code block open.
func (f *Fence) Open() bool {
	return f.size > 0
}

// Scan advances past line and reports whether it belongs to a code block,
// including the opening and closing fence lines.
func (f *Fence) Scan(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return f.Open()
	}

	char, size := fenceRun(trimmed)

	if f.Open() {
		if char == f.char && size >= f.size && strings.TrimSpace(trimmed[size:]) == "" {
			*f = Fence{}
		}

		return true
	}

	if size < 3 {
		return false
	}

	// Backtick fences cannot carry backticks in their info string.
	if char == '`' && strings.ContainsRune(trimmed[size:], '`') {
		return false
	}

	f.char, f.size = char, size

	return true
}

func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}

	n := 1
	for n < len(s) && s[n] == s[0] {
		n++
	}

	return s[0], n
}
