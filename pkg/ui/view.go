package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/ui/statusbar"
	"github.com/macropower/flip/pkg/ui/theme"
)

const (
	headerHeight    = 1
	dotsHeight      = 1
	statusBarHeight = 1

	indicatorWidth = 2
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	page := m.sess.Page()
	state := m.sess.State()

	body := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.viewport.View())
	body = lipgloss.NewStyle().MaxWidth(m.width).Render(m.slide.apply(body))

	note := page.Title
	if name := m.sess.Book().Name; name != "" {
		note = name + " · " + page.Title
	}

	status := statusbar.NewRenderer(m.theme, m.width, statusbar.WithMessage(m.statusMsg, m.statusStyle)).
		Render(note, fmt.Sprintf("%d/%d", state.CurrentPage, state.PagesCount))

	parts := []string{
		m.headerView(page.Title),
		body,
		m.dotsView(),
		status,
	}

	if m.showHelp {
		parts = append(parts, m.help.Render(m.width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// headerView renders the page title between the swipe indicator slots.
func (m Model) headerView(title string) string {
	left, right := "  ", "  "

	switch m.indicator {
	case gesture.IndicatorLeft:
		left = m.theme.IndicatorStyle.Render(theme.ArrowLeft) + " "
	case gesture.IndicatorRight:
		right = " " + m.theme.IndicatorStyle.Render(theme.ArrowRight)
	}

	width := max(0, m.width-2*indicatorWidth)
	title = truncate.StringWithTail(title, uint(width), m.theme.Ellipsis) //nolint:gosec // Uses max.

	return left + lipgloss.PlaceHorizontal(width, lipgloss.Center, m.theme.TitleStyle.Render(title)) + right
}

// dotsView renders one dot per page, falling back to "n/N" when the dots do
// not fit.
func (m Model) dotsView() string {
	d := m.dots

	view := d.View()
	if lipgloss.Width(view) > m.width {
		d.Type = paginator.Arabic
		d.ArabicFormat = "%d/%d"
		view = m.theme.PaginationStyle.Render(d.View())
	}

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
}

// layout sizes the viewport for the current window.
func (m *Model) layout() {
	height := m.height - headerHeight - dotsHeight - statusBarHeight
	if m.showHelp {
		height -= m.help.Height(m.width)
	}

	m.viewport.Width = m.contentWidth()
	m.viewport.Height = max(0, height)

	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

// contentWidth is the width pages are wrapped to.
func (m Model) contentWidth() int {
	if m.maxWidth > 0 {
		return min(m.width, m.maxWidth)
	}

	return m.width
}
