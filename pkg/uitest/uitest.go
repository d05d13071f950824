package uitest

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds waits for output and for the program to finish.
const DefaultTimeout = 5 * time.Second

// BubbleModel is a constraint for Bubble Tea model types that return their
// concrete type from Update instead of [tea.Model].
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd)
	View() string
}

// modelAdapter wraps a concrete model type to satisfy [tea.Model].
type modelAdapter[T BubbleModel[T]] struct {
	model T
}

func (a modelAdapter[T]) Init() tea.Cmd {
	return a.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (a modelAdapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)

	return modelAdapter[T]{model: m}, cmd
}

func (a modelAdapter[T]) View() string {
	return a.model.View()
}

// SetupColorProfile sets the color profile to TrueColor for consistent
// output.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// NewTestModel creates a new test model with the given terminal size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, modelAdapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitForText waits until the output, stripped of ANSI sequences, contains
// text.
func WaitForText(tb testing.TB, r io.Reader, text string) {
	tb.Helper()

	teatest.WaitFor(tb, r, func(b []byte) bool {
		return bytes.Contains([]byte(ansi.Strip(string(b))), []byte(text))
	}, teatest.WithDuration(DefaultTimeout), teatest.WithCheckInterval(10*time.Millisecond))
}

// FinalModel waits for the program to finish and returns the final model.
func FinalModel[T BubbleModel[T]](tb testing.TB, tm *teatest.TestModel) T { //nolint:ireturn // Generic.
	tb.Helper()

	fm := tm.FinalModel(tb, teatest.WithFinalTimeout(DefaultTimeout))

	a, ok := fm.(modelAdapter[T])
	if !ok {
		tb.Fatalf("unexpected final model %T", fm)
	}

	return a.model
}
