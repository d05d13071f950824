package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/x/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/flip/pkg/paging"
)

const (
	slideFPS       = 60
	slideFrequency = 6.0
	slideDamping   = 0.5
	// slideFraction of the width a new page starts away from rest.
	slideFraction = 6
	slideRest     = 0.5
)

type slideFrameMsg struct {
	id int
}

// slide moves page content back to rest after a turn.
type slide struct {
	spring   harmonica.Spring
	offset   float64
	velocity float64
	id       int
	active   bool
}

func newSlide() slide {
	return slide{spring: harmonica.NewSpring(harmonica.FPS(slideFPS), slideFrequency, slideDamping)}
}

// start begins a slide for a turn in dir across width cells. Next pages come
// in from the right and previous pages from the left.
func (s *slide) start(dir paging.Direction, width int) tea.Cmd {
	dist := float64(width / slideFraction)

	switch dir {
	case paging.DirectionNext:
		s.offset = dist
	case paging.DirectionPrev:
		s.offset = -dist
	default:
		return nil
	}

	if s.offset == 0 {
		return nil
	}

	s.velocity = 0
	s.id++
	s.active = true

	return s.tick()
}

func (s *slide) update(msg slideFrameMsg) tea.Cmd {
	if !s.active || msg.id != s.id {
		return nil
	}

	s.offset, s.velocity = s.spring.Update(s.offset, s.velocity, 0)

	if math.Abs(s.offset) < slideRest && math.Abs(s.velocity) < slideRest {
		s.offset, s.velocity, s.active = 0, 0, false

		return nil
	}

	return s.tick()
}

func (s *slide) tick() tea.Cmd {
	id := s.id

	return tea.Tick(time.Second/slideFPS, func(time.Time) tea.Msg {
		return slideFrameMsg{id: id}
	})
}

// apply shifts every line of content by the current offset.
func (s *slide) apply(content string) string {
	n := int(math.Round(s.offset))
	if n == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if n > 0 {
			lines[i] = strings.Repeat(" ", n) + line
		} else {
			lines[i] = ansi.TruncateLeft(line, -n, "")
		}
	}

	return strings.Join(lines, "\n")
}
