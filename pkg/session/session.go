// Package session ties a [book.Book] to the navigation machinery.
//
// A [Session] owns a [paging.Navigator], a [gesture.Recognizer] and an
// [input.Hub] subscription that feeds the recognizer. All input goes through
// [Session.Dispatch], so page turns from every source (terminal, MCP
// clients) share a single animation lock and a single total order.
//
// Listeners registered with [Session.Subscribe] receive an [Event] for every
// committed turn, every settled animation, every indicator change, and
// every reload. Sends never block; events for a full channel are dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/flip/pkg/book"
	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/input"
	"github.com/macropower/flip/pkg/log"
	"github.com/macropower/flip/pkg/paging"
)

var (
	// ErrClosed is returned by [Session.Reload] after [Session.Close].
	ErrClosed = errors.New("session closed")
	// ErrNoBook is returned when a session is given a nil book.
	ErrNoBook = errors.New("no book")
)

// Config configures a [Session]. The zero value uses the defaults of
// [paging] and [gesture].
type Config struct {
	Scheduler      paging.Scheduler
	Thresholds     gesture.Thresholds
	LockDuration   time.Duration
	IndicatorDelay time.Duration
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type (
	// Event is sent to subscribers. It is one of the Event* types.
	Event any

	// EventTurned is sent after a committed page turn.
	EventTurned struct {
		Page    book.Page
		State   paging.State
		Outcome gesture.Outcome
	}

	// EventSettled is sent when the animation lock clears.
	EventSettled struct {
		State paging.State
	}

	// EventIndicator is sent when the swipe indicator changes.
	EventIndicator struct {
		Indicator gesture.Indicator
	}

	// EventReloaded is sent after [Session.Reload].
	EventReloaded struct {
		Summary string
		State   paging.State
	}
)

// Session is a reading session over one book at a time.
type Session struct {
	hub    *input.Hub
	tracer trace.Tracer

	book *book.Book
	nav  *paging.Navigator
	rec  *gesture.Recognizer
	sub  *input.Subscription
	// current is the live navigator, read by timer callbacks without mu.
	current atomic.Pointer[paging.Navigator]

	listeners []chan<- Event
	cfg       Config

	mu     sync.RWMutex
	lmu    sync.RWMutex
	closed bool
}

// New creates a new [Session] over b, starting at the first page.
func New(b *book.Book, cfg Config) (*Session, error) {
	if cfg.Scheduler == nil {
		cfg.Scheduler = paging.SystemScheduler{}
	}

	if cfg.Thresholds == (gesture.Thresholds{}) {
		cfg.Thresholds = gesture.DefaultThresholds()
	}

	if cfg.LockDuration <= 0 {
		cfg.LockDuration = paging.DefaultLockDuration
	}

	if cfg.IndicatorDelay <= 0 {
		cfg.IndicatorDelay = gesture.DefaultIndicatorDelay
	}

	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	s := &Session{
		hub:    input.NewHub(),
		tracer: cfg.TracerProvider.Tracer("session"),
		cfg:    cfg,
	}

	err := s.open(b, 1)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// open builds the navigator and recognizer for b. The caller holds mu, or
// has exclusive access during construction.
func (s *Session) open(b *book.Book, startPage int) error {
	if b == nil {
		return ErrNoBook
	}

	var nav *paging.Navigator

	nav, err := paging.New(b.Len(),
		paging.WithScheduler(s.cfg.Scheduler),
		paging.WithLockDuration(s.cfg.LockDuration),
		paging.WithStartPage(startPage),
		paging.WithUnlockFunc(func(state paging.State) {
			if s.current.Load() != nav {
				return
			}

			s.broadcast(EventSettled{State: state})
		}),
	)
	if err != nil {
		return fmt.Errorf("create navigator: %w", err)
	}

	rec := gesture.NewRecognizer(nav,
		gesture.WithScheduler(s.cfg.Scheduler),
		gesture.WithThresholds(s.cfg.Thresholds),
		gesture.WithIndicatorDelay(s.cfg.IndicatorDelay),
		gesture.WithIndicatorFunc(func(i gesture.Indicator) {
			s.broadcast(EventIndicator{Indicator: i})
		}),
	)

	s.book = b
	s.nav = nav
	s.rec = rec
	s.sub = s.hub.Attach(rec)
	s.current.Store(nav)

	return nil
}

// teardown detaches and closes the current navigator and recognizer. The
// caller holds mu.
func (s *Session) teardown() {
	s.current.Store(nil)
	s.sub.Detach()
	s.rec.Close()
	s.nav.Close()
}

// Subscribe registers ch to receive events.
func (s *Session) Subscribe(ch chan<- Event) {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	s.listeners = append(s.listeners, ch)
}

func (s *Session) broadcast(evt Event) {
	s.lmu.RLock()
	defer s.lmu.RUnlock()

	for _, ch := range s.listeners {
		select {
		case ch <- evt:
		default:
			slog.Debug("dropped session event", slog.String("event", fmt.Sprintf("%T", evt)))
		}
	}
}

// Dispatch sends in to the recognizer and returns what it did.
func (s *Session) Dispatch(ctx context.Context, in gesture.Input) gesture.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return gesture.Outcome{Reason: gesture.ReasonClosed}
	}

	ctx, span := s.tracer.Start(ctx, "turn")
	defer span.End()

	out := gesture.Outcome{Reason: gesture.ReasonClosed}
	for i, o := range s.hub.Dispatch(in) {
		if i == 0 || o.Committed {
			out = o
		}
	}

	span.SetAttributes(
		attribute.Bool("committed", out.Committed),
		attribute.String("reason", out.Reason.String()),
	)

	if !out.Committed {
		return out
	}

	state := s.nav.State()
	page, _ := s.book.Page(state.CurrentPage)

	span.SetAttributes(
		attribute.String("command", out.Command.String()),
		attribute.Int("page", state.CurrentPage),
		attribute.Int("pages", state.PagesCount),
	)

	log.WithContext(ctx).DebugContext(ctx, "turned page",
		slog.Any("outcome", out),
		slog.Int("page", state.CurrentPage),
	)

	s.broadcast(EventTurned{State: state, Outcome: out, Page: page})

	return out
}

// State returns the navigation state.
func (s *Session) State() paging.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nav.State()
}

// Page returns the current page.
func (s *Session) Page() book.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, _ := s.book.Page(s.nav.State().CurrentPage)

	return p
}

// Book returns the current book.
func (s *Session) Book() *book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.book
}

// Indicator returns the swipe indicator.
func (s *Session) Indicator() gesture.Indicator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rec.Indicator()
}

// Reload replaces the book, keeping the current page number where it is
// still in range. Any transition in progress is abandoned.
func (s *Session) Reload(ctx context.Context, b *book.Book) error {
	ctx, span := s.tracer.Start(ctx, "reload")
	defer span.End()

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	switch {
	case b == nil:
		s.mu.Unlock()
		return ErrNoBook
	case b.Len() == 0:
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", b.Name, book.ErrEmptyBook)
	}

	page := s.nav.State().CurrentPage
	prevIndicator := s.rec.Indicator()
	s.teardown()

	err := s.open(b, page)
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)

		return err
	}

	state := s.nav.State()
	indicator := s.rec.Indicator()
	s.mu.Unlock()

	log.WithContext(ctx).InfoContext(ctx, "reloaded book",
		slog.String("book", b.Name),
		slog.String("summary", b.Summary()),
		slog.Int("page", state.CurrentPage),
	)

	s.broadcast(EventReloaded{State: state, Summary: b.Summary()})

	// Teardown cancels the pending clear, so listeners holding the old
	// indicator would otherwise never see it reset.
	if indicator != prevIndicator {
		s.broadcast(EventIndicator{Indicator: indicator})
	}

	return nil
}

// Close detaches the recognizer and cancels all pending timers. It is
// idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	s.teardown()
}
