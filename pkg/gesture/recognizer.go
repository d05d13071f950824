package gesture

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/macropower/flip/pkg/paging"
)

// Navigator is the navigation target of a [Recognizer].
// It is implemented by [paging.Navigator].
type Navigator interface {
	GoNext() bool
	GoPrev() bool
	State() paging.State
}

// Indicator is the swipe direction hint shown while swiping.
type Indicator int

const (
	IndicatorNone Indicator = iota
	IndicatorLeft
	IndicatorRight
)

func (i Indicator) String() string {
	switch i {
	case IndicatorLeft:
		return "left"
	case IndicatorRight:
		return "right"
	case IndicatorNone:
	}

	return "none"
}

// Command is a navigation command derived from input.
type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrev
)

func (c Command) String() string {
	switch c {
	case CommandNext:
		return "next"
	case CommandPrev:
		return "prev"
	case CommandNone:
	}

	return "none"
}

// Outcome describes what a [Recognizer] did with one [Input].
type Outcome struct {
	// Command is the navigation command the input mapped to, if any.
	Command Command
	// Classification is set for touch end events that were classified.
	Classification Classification
	// Reason is set when Committed is false.
	Reason Reason
	// Committed is true if the navigator changed page.
	Committed bool
}

// LogValue implements [slog.LogValuer].
func (o Outcome) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("command", o.Command.String()),
		slog.Bool("committed", o.Committed),
		slog.String("classification", o.Classification.String()),
		slog.String("reason", o.Reason.String()),
	)
}

// Recognizer translates [Input] into calls on a [Navigator].
// It is safe for concurrent use.
type Recognizer struct {
	nav         Navigator
	scheduler   paging.Scheduler
	clearTimer  paging.Timer
	onIndicator func(Indicator)
	start       *Sample

	thresholds     Thresholds
	indicatorDelay time.Duration
	indicator      Indicator
	// generation identifies the indicator clear that owns clearTimer.
	generation uint64

	mu     sync.Mutex
	closed bool
}

// RecognizerOpt configures a [Recognizer].
type RecognizerOpt func(*Recognizer)

// WithThresholds sets the swipe [Thresholds].
func WithThresholds(th Thresholds) RecognizerOpt {
	return func(r *Recognizer) {
		r.thresholds = th
	}
}

// WithScheduler sets the [paging.Scheduler] used to clear the indicator.
func WithScheduler(s paging.Scheduler) RecognizerOpt {
	return func(r *Recognizer) {
		r.scheduler = s
	}
}

// WithIndicatorDelay sets how long the indicator stays up after a
// committed swipe.
func WithIndicatorDelay(d time.Duration) RecognizerOpt {
	return func(r *Recognizer) {
		r.indicatorDelay = d
	}
}

// WithIndicatorFunc sets a callback that runs whenever the indicator
// changes. It runs without any lock held.
func WithIndicatorFunc(f func(Indicator)) RecognizerOpt {
	return func(r *Recognizer) {
		r.onIndicator = f
	}
}

// NewRecognizer creates a new [Recognizer] driving nav.
func NewRecognizer(nav Navigator, opts ...RecognizerOpt) *Recognizer {
	r := &Recognizer{
		nav:            nav,
		scheduler:      paging.SystemScheduler{},
		thresholds:     DefaultThresholds(),
		indicatorDelay: DefaultIndicatorDelay,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Indicator returns the current swipe indicator.
func (r *Recognizer) Indicator() Indicator {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.indicator
}

// Handle processes a single [Input].
func (r *Recognizer) Handle(in Input) Outcome {
	r.mu.Lock()

	before := r.indicator

	var out Outcome

	switch {
	case r.closed:
		out = Outcome{Reason: ReasonClosed}

	default:
		switch in := in.(type) {
		case KeyInput:
			out = r.handleKey(in)
		case TouchInput:
			out = r.handleTouch(in)
		default:
			out = Outcome{Reason: ReasonIgnored}
		}
	}

	after := r.indicator
	onIndicator := r.onIndicator

	r.mu.Unlock()

	if out.Reason != ReasonNone && out.Reason != ReasonIgnored {
		slog.Debug("input rejected", slog.Any("outcome", out))
	}

	if onIndicator != nil && before != after {
		onIndicator(after)
	}

	return out
}

// Close cancels a pending indicator clear. After Close, all input is
// rejected. Close is idempotent.
func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.start = nil
	r.cancelClear()
}

func (r *Recognizer) handleKey(in KeyInput) Outcome {
	switch in.Key {
	case KeyArrowRight, KeyArrowDown:
		return r.dispatch(CommandNext)
	case KeyArrowLeft, KeyArrowUp:
		return r.dispatch(CommandPrev)
	}

	return Outcome{Reason: ReasonIgnored}
}

func (r *Recognizer) handleTouch(in TouchInput) Outcome {
	switch in.Phase {
	case PhaseStart:
		if in.Fingers != 1 {
			return Outcome{Reason: ReasonIgnored}
		}

		s := in.Sample()
		r.start = &s
		r.cancelClear()
		r.indicator = IndicatorNone

		return Outcome{}

	case PhaseMove:
		if r.start == nil {
			return Outcome{Reason: ReasonNoStart}
		}

		dx := r.start.X - in.X
		dy := r.start.Y - in.Y

		switch {
		case math.Abs(dx) > math.Abs(dy) && math.Abs(dx) >= r.thresholds.MinSwipeDistance/2:
			if dx > 0 {
				r.indicator = IndicatorLeft
			} else {
				r.indicator = IndicatorRight
			}

		default:
			r.indicator = IndicatorNone
		}

		return Outcome{}

	case PhaseEnd:
		return r.handleTouchEnd(in)
	}

	return Outcome{Reason: ReasonIgnored}
}

func (r *Recognizer) handleTouchEnd(in TouchInput) Outcome {
	start := r.start
	r.start = nil

	if start == nil {
		r.indicator = IndicatorNone
		return Outcome{Reason: ReasonNoStart}
	}

	if r.nav.State().IsAnimating {
		r.indicator = IndicatorNone
		return Outcome{Reason: ReasonAnimating}
	}

	class, reason := Classify(*start, in.Sample(), r.thresholds)
	if class == ClassificationNone {
		r.indicator = IndicatorNone
		return Outcome{Classification: class, Reason: reason}
	}

	cmd := CommandNext
	ind := IndicatorLeft

	if class == SwipeRight {
		cmd = CommandPrev
		ind = IndicatorRight
	}

	out := r.dispatch(cmd)
	out.Classification = class

	if !out.Committed {
		r.indicator = IndicatorNone
		return out
	}

	r.indicator = ind
	r.scheduleClear()

	return out
}

// dispatch checks bounds and the animation lock, then calls the navigator.
func (r *Recognizer) dispatch(cmd Command) Outcome {
	state := r.nav.State()

	switch {
	case state.IsAnimating:
		return Outcome{Command: cmd, Reason: ReasonAnimating}
	case cmd == CommandNext && !state.CanGoNext():
		return Outcome{Command: cmd, Reason: ReasonBoundary}
	case cmd == CommandPrev && !state.CanGoPrev():
		return Outcome{Command: cmd, Reason: ReasonBoundary}
	}

	var ok bool

	switch cmd {
	case CommandNext:
		ok = r.nav.GoNext()
	case CommandPrev:
		ok = r.nav.GoPrev()
	case CommandNone:
	}

	if !ok {
		// Lost a race with another input source.
		return Outcome{Command: cmd, Reason: ReasonAnimating}
	}

	return Outcome{Command: cmd, Committed: true}
}

func (r *Recognizer) scheduleClear() {
	r.cancelClear()

	gen := r.generation
	r.clearTimer = r.scheduler.AfterFunc(r.indicatorDelay, func() {
		r.clear(gen)
	})
}

// cancelClear stops the pending indicator clear, if any.
func (r *Recognizer) cancelClear() {
	r.generation++

	if r.clearTimer != nil {
		r.clearTimer.Stop()
		r.clearTimer = nil
	}
}

func (r *Recognizer) clear(gen uint64) {
	r.mu.Lock()

	if r.closed || gen != r.generation || r.indicator == IndicatorNone {
		r.mu.Unlock()
		return
	}

	r.indicator = IndicatorNone
	r.clearTimer = nil
	onIndicator := r.onIndicator

	r.mu.Unlock()

	if onIndicator != nil {
		onIndicator(IndicatorNone)
	}
}
