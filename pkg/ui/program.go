package ui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// program adapts [Model] to [tea.Model].
type program struct {
	m Model
}

func (p program) Init() tea.Cmd {
	return p.m.Init()
}

func (p program) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn // Must satisfy [tea.Model].
	m, cmd := p.m.Update(msg)

	return program{m: m}, cmd
}

func (p program) View() string {
	return p.m.View()
}

// NewProgram returns a new Tea program for m, in the alternate screen and
// with mouse cell motion reporting when the mouse is enabled.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting flip ui")

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(m.ctx)}, opts...)
	if m.mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	return tea.NewProgram(program{m: m}, opts...)
}
