// Package ui implements the flip terminal user interface.
//
// [Model] renders the current page of a [session.Session] and translates
// Bubble Tea key and mouse messages into [gesture.Input] values, which it
// dispatches through the session. It redraws on session events, so turns
// made by other clients of the same session show up as well.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/flip/pkg/book"
	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/keys"
	"github.com/macropower/flip/pkg/log"
	"github.com/macropower/flip/pkg/session"
	"github.com/macropower/flip/pkg/ui/statusbar"
	"github.com/macropower/flip/pkg/ui/theme"
)

const (
	// EventBufferSize is the capacity of the session event channel.
	EventBufferSize = 100

	statusMessageTimeout = 3 * time.Second
)

// SessionEventMsg carries a [session.Event] into the model.
type SessionEventMsg struct {
	Event session.Event
}

type (
	pageRenderedMsg struct {
		err     error
		content string
		page    int
		width   int
	}

	reloadedMsg struct {
		book *book.Book
		err  error
	}

	statusMessageTimeoutMsg struct {
		id int
	}
)

// ReloadFunc loads a fresh copy of the book.
type ReloadFunc func(ctx context.Context) (*book.Book, error)

// CopyFunc copies text to the clipboard.
type CopyFunc func(text string) error

// Model is the Bubble Tea model for a reading session.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	events chan session.Event
	theme  *theme.Theme
	kb     *KeyBinds
	help   *statusbar.HelpRenderer
	now    func() time.Time
	reload ReloadFunc
	copy   CopyFunc

	viewport viewport.Model
	dots     paginator.Model
	slide    slide

	glamourStyle string
	statusMsg    string
	statusID     int
	statusStyle  statusbar.Style
	renderedPage int
	width        int
	height       int
	maxWidth     int
	cellWidth    float64
	cellHeight   float64
	indicator    gesture.Indicator
	markdown     bool
	mouse        bool
	pressed      bool
	showHelp     bool
}

// ModelOpt configures a [Model].
type ModelOpt func(*Model)

// WithContext sets the context passed to the session.
func WithContext(ctx context.Context) ModelOpt {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// WithCellSize sets the size of a terminal cell in touch units.
func WithCellSize(width, height float64) ModelOpt {
	return func(m *Model) {
		if width > 0 {
			m.cellWidth = width
		}

		if height > 0 {
			m.cellHeight = height
		}
	}
}

// WithReloadFunc enables the reload key.
func WithReloadFunc(f ReloadFunc) ModelOpt {
	return func(m *Model) {
		m.reload = f
	}
}

// WithCopyFunc replaces the clipboard writer.
func WithCopyFunc(f CopyFunc) ModelOpt {
	return func(m *Model) {
		m.copy = f
	}
}

// WithClock sets the source of touch timestamps.
func WithClock(now func() time.Time) ModelOpt {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a new [Model] for sess. The model subscribes to sess.
func NewModel(sess *session.Session, cfg *Config, opts ...ModelOpt) Model {
	if cfg == nil {
		cfg = NewConfig()
	}

	cfg.EnsureDefaults()

	t := theme.New(cfg.Theme)

	kbr := &keys.Renderer{}
	kbr.AddColumn(cfg.KeyBinds.Next, cfg.KeyBinds.Prev)
	kbr.AddColumn(cfg.KeyBinds.Copy, cfg.KeyBinds.Reload)
	kbr.AddColumn(cfg.KeyBinds.Help, cfg.KeyBinds.Quit)

	vp := viewport.New(0, 0)
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)
	vp.KeyMap.Up.SetKeys("k")
	vp.KeyMap.Down.SetKeys("j")

	dots := paginator.New()
	dots.Type = paginator.Dots
	dots.ActiveDot = t.PaginationActiveStyle.Render(theme.Dot)
	dots.InactiveDot = t.PaginationStyle.Render(theme.Dot)

	m := Model{
		ctx:          context.Background(),
		sess:         sess,
		events:       make(chan session.Event, EventBufferSize),
		theme:        t,
		kb:           cfg.KeyBinds,
		help:         statusbar.NewHelpRenderer(t, kbr),
		now:          time.Now,
		copy:         copyToClipboard,
		viewport:     vp,
		dots:         dots,
		slide:        newSlide(),
		glamourStyle: cfg.GlamourStyle,
		maxWidth:     cfg.MaxWidth,
		markdown:     *cfg.Markdown,
		mouse:        *cfg.Mouse,
		cellWidth:    DefaultCellWidth,
		cellHeight:   DefaultCellHeight,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.syncDots()
	sess.Subscribe(m.events)

	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case tea.MouseMsg:
		if cmd, handled := m.handleMouse(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

		return m, m.renderPage()

	case SessionEventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event), m.waitForEvent())

		return m, tea.Batch(cmds...)

	case pageRenderedMsg:
		m.handleRendered(msg)

		return m, nil

	case slideFrameMsg:
		return m, m.slide.update(msg)

	case reloadedMsg:
		return m, m.handleReloaded(msg)

	case statusMessageTimeoutMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	code := msg.String()

	if in, ok := m.keyInput(code); ok {
		m.dispatch(in)

		return nil, true
	}

	switch {
	case m.kb.Quit.Match(code):
		return tea.Quit, true

	case m.kb.Suspend.Match(code):
		return tea.Suspend, true

	case m.kb.Help.Match(code):
		m.showHelp = !m.showHelp
		m.layout()

		return nil, true

	case m.kb.Copy.Match(code):
		err := m.copy(m.sess.Page().Body)
		if err != nil {
			return m.sendStatusMessage(fmt.Sprintf("copy page: %v", err), statusbar.StyleError), true
		}

		msg := fmt.Sprintf("copied page %d", m.sess.State().CurrentPage)

		return m.sendStatusMessage(msg, statusbar.StyleSuccess), true

	case m.kb.Reload.Match(code):
		if m.reload == nil {
			return m.sendStatusMessage("nothing to reload", statusbar.StyleError), true
		}

		return m.reloadBook(), true
	}

	return nil, false
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	if !m.mouse || tea.MouseEvent(msg).IsWheel() {
		return nil, false
	}

	in, ok := m.touchInput(msg, m.pressed, m.now())
	if !ok {
		return nil, false
	}

	switch in.Phase {
	case gesture.PhaseStart:
		m.pressed = true
	case gesture.PhaseEnd:
		m.pressed = false
	}

	m.dispatch(in)

	return nil, true
}

func (m *Model) dispatch(in gesture.Input) {
	out := m.sess.Dispatch(m.ctx, in)
	if out.Committed {
		return
	}

	log.WithContext(m.ctx).DebugContext(m.ctx, "input not committed",
		slog.String("input", fmt.Sprintf("%T", in)),
		slog.Any("outcome", out),
	)
}

func (m *Model) handleEvent(evt session.Event) tea.Cmd {
	switch e := evt.(type) {
	case session.EventTurned:
		m.syncDots()

		return tea.Batch(m.slide.start(e.State.Direction, m.viewport.Width), m.renderPage())

	case session.EventSettled:
		m.syncDots()

	case session.EventIndicator:
		m.indicator = e.Indicator

	case session.EventReloaded:
		m.syncDots()
		m.renderedPage = 0
		m.indicator = m.sess.Indicator()

		return tea.Batch(
			m.renderPage(),
			m.sendStatusMessage("reloaded: "+e.Summary, statusbar.StyleSuccess),
		)
	}

	return nil
}

func (m *Model) handleRendered(msg pageRenderedMsg) {
	if msg.err != nil {
		m.statusMsg = msg.err.Error()
		m.statusStyle = statusbar.StyleError

		return
	}

	// Drop renders for pages or sizes that are no longer shown.
	if msg.page != m.sess.State().CurrentPage || msg.width != m.contentWidth() {
		return
	}

	if msg.page != m.renderedPage {
		m.viewport.GotoTop()
	}

	m.renderedPage = msg.page
	m.viewport.SetContent(msg.content)
}

func (m *Model) handleReloaded(msg reloadedMsg) tea.Cmd {
	if msg.err == nil {
		msg.err = m.sess.Reload(m.ctx, msg.book)
	}

	if msg.err != nil {
		return m.sendStatusMessage(fmt.Sprintf("reload: %v", msg.err), statusbar.StyleError)
	}

	return nil
}

func (m *Model) sendStatusMessage(msg string, style statusbar.Style) tea.Cmd {
	m.statusID++
	m.statusMsg = msg
	m.statusStyle = style

	id := m.statusID

	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id: id}
	})
}

// waitForEvent reads the next session event.
func (m Model) waitForEvent() tea.Cmd {
	ctx, events := m.ctx, m.events

	return func() tea.Msg {
		select {
		case evt := <-events:
			return SessionEventMsg{Event: evt}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) reloadBook() tea.Cmd {
	ctx, reload := m.ctx, m.reload

	return func() tea.Msg {
		b, err := reload(ctx)

		return reloadedMsg{book: b, err: err}
	}
}

// renderPage renders the current page at the current width.
func (m Model) renderPage() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	page := m.sess.Page()
	current := m.sess.State().CurrentPage
	width := m.contentWidth()
	style, markdown := m.glamourStyle, m.markdown

	return func() tea.Msg {
		pr, err := newPageRenderer(style, width, markdown)
		if err != nil {
			return pageRenderedMsg{err: err}
		}

		content, err := pr.render(page.Body)

		return pageRenderedMsg{page: current, width: width, content: content, err: err}
	}
}

func (m *Model) syncDots() {
	state := m.sess.State()

	m.dots.SetTotalPages(state.PagesCount)
	m.dots.Page = state.CurrentPage - 1
}

func copyToClipboard(text string) error {
	// Copy using OSC 52.
	termenv.Copy(text)

	// Copy using native system clipboard, which is missing on headless hosts.
	err := clipboard.WriteAll(text)
	if err != nil {
		slog.Debug("write native clipboard", slog.Any("err", err))
	}

	return nil
}
