package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/flip/pkg/ui/theme"
)

// KeyBindRenderer renders key binds into columns.
type KeyBindRenderer interface {
	Render(width int) string
}

// HelpRenderer renders the help panel shown under the status bar.
type HelpRenderer struct {
	theme    *theme.Theme
	keyBinds KeyBindRenderer
}

// NewHelpRenderer creates a new [HelpRenderer].
func NewHelpRenderer(t *theme.Theme, keyBinds KeyBindRenderer) *HelpRenderer {
	return &HelpRenderer{theme: t, keyBinds: keyBinds}
}

// Render renders the help panel at the given width.
func (r *HelpRenderer) Render(width int) string {
	content := lipgloss.NewStyle().
		Padding(1).
		Width(max(0, width)).
		Render(r.keyBinds.Render(width - 2))

	return r.theme.HelpStyle.Render(content)
}

// Height returns the number of lines [HelpRenderer.Render] produces.
func (r *HelpRenderer) Height(width int) int {
	return strings.Count(r.Render(width), "\n") + 1
}
