package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/flip/pkg/gesture"
)

// Default size of one terminal cell in touch units. Mouse cell coordinates
// are multiplied by these so that swipe thresholds keep their meaning.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// keyInput translates a bound next/prev key into a [gesture.KeyInput].
func (m Model) keyInput(code string) (gesture.KeyInput, bool) {
	switch {
	case m.kb.Next.Match(code):
		if code == "down" {
			return gesture.KeyInput{Key: gesture.KeyArrowDown}, true
		}

		return gesture.KeyInput{Key: gesture.KeyArrowRight}, true

	case m.kb.Prev.Match(code):
		if code == "up" {
			return gesture.KeyInput{Key: gesture.KeyArrowUp}, true
		}

		return gesture.KeyInput{Key: gesture.KeyArrowLeft}, true
	}

	return gesture.KeyInput{}, false
}

// touchInput translates a left-button drag into a [gesture.TouchInput].
// pressed reports whether a drag is in progress before msg.
func (m Model) touchInput(msg tea.MouseMsg, pressed bool, now time.Time) (gesture.TouchInput, bool) {
	ti := gesture.TouchInput{
		X:       float64(msg.X) * m.cellWidth,
		Y:       float64(msg.Y) * m.cellHeight,
		Time:    now,
		Fingers: 1,
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ti.Phase = gesture.PhaseStart
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft && pressed:
		ti.Phase = gesture.PhaseMove
	case msg.Action == tea.MouseActionRelease && pressed:
		ti.Phase = gesture.PhaseEnd
	default:
		return ti, false
	}

	return ti, true
}
