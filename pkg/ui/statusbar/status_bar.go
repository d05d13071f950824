// Package statusbar renders the bottom status line and the help panel.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/flip/pkg/ui/theme"
	"github.com/macropower/flip/pkg/version"
)

const (
	helpText  = " ? Help "
	errorText = " ! Error "

	minWidth = 30
)

type Style int

const (
	StyleNormal Style = iota
	StyleSuccess
	StyleError
)

// Renderer renders the status bar.
type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

// RendererOpt configures a [Renderer].
type RendererOpt func(*Renderer)

// NewRenderer creates a new [Renderer]. Widths below a usable minimum are
// raised to it.
func NewRenderer(t *theme.Theme, width int, opts ...RendererOpt) *Renderer {
	r := &Renderer{theme: t, width: max(width, minWidth), style: StyleNormal}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithMessage replaces the note with message. An empty message is ignored.
func WithMessage(message string, style Style) RendererOpt {
	return func(r *Renderer) {
		if message == "" {
			return
		}

		r.style = style
		r.message = message
	}
}

// Render renders the status bar with the note msg and the position text
// pos, e.g. "3/12".
func (r *Renderer) Render(msg, pos string) string {
	logo := r.logoView()
	helpNote := r.renderHelpNote()
	posNote := r.renderPosNote(pos)
	note := r.renderNote(msg, logo, posNote, helpNote)
	emptySpace := r.renderEmptySpace(logo, note, posNote, helpNote)

	return fmt.Sprintf("%s%s%s%s%s", logo, note, emptySpace, posNote, helpNote)
}

func (r *Renderer) renderPosNote(pos string) string {
	pos = " " + pos + " "

	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorStyle.Render(pos)
	case StyleSuccess:
		return r.theme.StatusBarMessagePosStyle.Render(pos)
	default:
		return r.theme.StatusBarPosStyle.Render(pos)
	}
}

func (r *Renderer) renderHelpNote() string {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorHelpStyle.Render(errorText)
	case StyleSuccess:
		return r.theme.StatusBarMessageHelpStyle.Render(helpText)
	default:
		return r.theme.StatusBarHelpStyle.Render(helpText)
	}
}

func (r *Renderer) renderNote(msg string, others ...string) string {
	note := msg
	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))

	available := r.width
	for _, o := range others {
		available -= ansi.PrintableRuneWidth(o)
	}

	note = truncate.StringWithTail(" "+note+" ", uint(max(0, available)), r.theme.Ellipsis) //nolint:gosec // Uses max.

	return r.noteStyle().Render(note)
}

func (r *Renderer) renderEmptySpace(components ...string) string {
	padding := r.width
	for _, comp := range components {
		padding -= ansi.PrintableRuneWidth(comp)
	}

	return r.noteStyle().Render(strings.Repeat(" ", max(0, padding)))
}

func (r *Renderer) noteStyle() lipgloss.Style {
	switch r.style {
	case StyleError:
		return r.theme.StatusBarErrorStyle
	case StyleSuccess:
		return r.theme.StatusBarMessageStyle
	default:
		return r.theme.StatusBarStyle
	}
}

func (r *Renderer) logoView() string {
	return r.theme.LogoStyle.Render(fmt.Sprintf(" flip %s ", version.Get()))
}
