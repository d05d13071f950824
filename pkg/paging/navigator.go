package paging

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultLockDuration is how long a transition holds the animation lock.
const DefaultLockDuration = 300 * time.Millisecond

// ErrInvalidPagesCount is returned by [New] when the page count is below one.
var ErrInvalidPagesCount = errors.New("pages count must be at least 1")

// Navigator is the navigation state holder for a fixed number of pages.
//
// All methods are safe for concurrent use. Commands are serialized, so the
// sequence of committed page changes is totally ordered.
type Navigator struct {
	scheduler Scheduler
	timer     Timer
	onUnlock  func(State)

	state State

	lockDuration time.Duration
	startPage    int
	// generation identifies the transition that owns the pending timer.
	generation uint64

	mu     sync.Mutex
	closed bool
}

// NavigatorOpt configures a [Navigator].
type NavigatorOpt func(*Navigator)

// WithLockDuration sets how long each transition holds the animation lock.
func WithLockDuration(d time.Duration) NavigatorOpt {
	return func(n *Navigator) {
		n.lockDuration = d
	}
}

// WithScheduler sets the [Scheduler] used for the unlock timer.
func WithScheduler(s Scheduler) NavigatorOpt {
	return func(n *Navigator) {
		n.scheduler = s
	}
}

// WithStartPage sets the initial page. It is clamped into range.
func WithStartPage(page int) NavigatorOpt {
	return func(n *Navigator) {
		n.startPage = page
	}
}

// WithUnlockFunc sets a callback that runs after the animation lock clears.
// The callback receives the settled state and runs without any lock held.
func WithUnlockFunc(f func(State)) NavigatorOpt {
	return func(n *Navigator) {
		n.onUnlock = f
	}
}

// New creates a new [Navigator] over pagesCount pages, starting at page 1.
func New(pagesCount int, opts ...NavigatorOpt) (*Navigator, error) {
	if pagesCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPagesCount, pagesCount)
	}

	n := &Navigator{
		scheduler:    SystemScheduler{},
		lockDuration: DefaultLockDuration,
		startPage:    1,
	}
	for _, opt := range opts {
		opt(n)
	}

	n.state = State{
		CurrentPage: min(max(n.startPage, 1), pagesCount),
		PagesCount:  pagesCount,
		Direction:   DirectionNone,
	}

	return n, nil
}

// GoNext advances one page. It returns false without changing anything when
// a transition is in progress, the last page is showing, or the navigator
// is closed.
func (n *Navigator) GoNext() bool {
	return n.turn(DirectionNext)
}

// GoPrev goes back one page. It returns false without changing anything
// when a transition is in progress, the first page is showing, or the
// navigator is closed.
func (n *Navigator) GoPrev() bool {
	return n.turn(DirectionPrev)
}

// State returns a snapshot of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.state
}

// Close cancels any pending unlock. After Close, every command is rejected.
// Close is idempotent.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	n.closed = true
	n.generation++

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Navigator) turn(dir Direction) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch {
	case n.closed:
		slog.Debug("navigation rejected", slog.String("reason", "closed"))
		return false

	case n.state.IsAnimating:
		slog.Debug("navigation rejected",
			slog.String("reason", "animating"),
			slog.String("direction", dir.String()),
		)

		return false
	}

	switch dir {
	case DirectionNext:
		if !n.state.CanGoNext() {
			slog.Debug("navigation rejected", slog.String("reason", "last page"))
			return false
		}

		n.state.CurrentPage++

	case DirectionPrev:
		if !n.state.CanGoPrev() {
			slog.Debug("navigation rejected", slog.String("reason", "first page"))
			return false
		}

		n.state.CurrentPage--

	case DirectionNone:
		return false
	}

	n.state.Direction = dir
	n.state.IsAnimating = true
	n.generation++

	gen := n.generation
	n.timer = n.scheduler.AfterFunc(n.lockDuration, func() {
		n.settle(gen)
	})

	slog.Debug("page turned",
		slog.String("direction", dir.String()),
		slog.Int("page", n.state.CurrentPage),
		slog.Int("pages", n.state.PagesCount),
	)

	return true
}

// settle clears the animation lock set by transition gen. Timers from older
// transitions, or that fire after Close, are ignored.
func (n *Navigator) settle(gen uint64) {
	n.mu.Lock()

	if n.closed || gen != n.generation {
		n.mu.Unlock()
		return
	}

	n.state.IsAnimating = false
	n.timer = nil
	state := n.state
	onUnlock := n.onUnlock

	n.mu.Unlock()

	if onUnlock != nil {
		onUnlock(state)
	}
}
