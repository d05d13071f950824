package gesture_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/paging"
	"github.com/macropower/flip/pkg/paging/pagingtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	nav   *paging.Navigator
	rec   *gesture.Recognizer
	clock *pagingtest.Clock

	indicators []gesture.Indicator
	mu         sync.Mutex
}

func newFixture(t *testing.T, pages, startPage int, opts ...gesture.RecognizerOpt) *fixture {
	t.Helper()

	f := &fixture{clock: pagingtest.NewClock(time.Unix(1000, 0))}

	nav, err := paging.New(pages,
		paging.WithScheduler(f.clock),
		paging.WithStartPage(startPage),
	)
	require.NoError(t, err)

	opts = append([]gesture.RecognizerOpt{
		gesture.WithScheduler(f.clock),
		gesture.WithIndicatorFunc(func(i gesture.Indicator) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.indicators = append(f.indicators, i)
		}),
	}, opts...)

	f.nav = nav
	f.rec = gesture.NewRecognizer(nav, opts...)

	t.Cleanup(func() {
		f.rec.Close()
		f.nav.Close()
	})

	return f
}

func (f *fixture) touch(phase gesture.Phase, x, y float64, after time.Duration, fingers int) gesture.Outcome {
	if after > 0 {
		f.clock.Advance(after)
	}

	return f.rec.Handle(gesture.TouchInput{
		Phase:   phase,
		X:       x,
		Y:       y,
		Time:    f.clock.Now(),
		Fingers: fingers,
	})
}

func (f *fixture) seen() []gesture.Indicator {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]gesture.Indicator(nil), f.indicators...)
}

func TestRecognizer_Swipe(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, 2)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	out := f.touch(gesture.PhaseEnd, 150, 110, 150*time.Millisecond, 1)

	assert.True(t, out.Committed)
	assert.Equal(t, gesture.CommandNext, out.Command)
	assert.Equal(t, gesture.SwipeLeft, out.Classification)

	state := f.nav.State()
	assert.Equal(t, 3, state.CurrentPage)
	assert.Equal(t, paging.DirectionNext, state.Direction)
	assert.True(t, state.IsAnimating)
	assert.Equal(t, gesture.IndicatorLeft, f.rec.Indicator())
}

func TestRecognizer_Rejections(t *testing.T) {
	t.Parallel()

	type point struct {
		x, y    float64
		after   time.Duration
		fingers int
	}

	tcs := map[string]struct {
		start      point
		end        point
		startPage  int
		wantReason gesture.Reason
		wantClass  gesture.Classification
	}{
		"diagonal": {
			start:      point{x: 300, y: 300, fingers: 1},
			end:        point{x: 200, y: 210, after: 100 * time.Millisecond, fingers: 1},
			startPage:  2,
			wantReason: gesture.ReasonNotDominant,
		},
		"slow": {
			start:      point{x: 300, y: 300, fingers: 1},
			end:        point{x: 100, y: 300, after: 600 * time.Millisecond, fingers: 1},
			startPage:  2,
			wantReason: gesture.ReasonSlow,
		},
		"short": {
			start:      point{x: 300, y: 300, fingers: 1},
			end:        point{x: 250, y: 300, after: 100 * time.Millisecond, fingers: 1},
			startPage:  2,
			wantReason: gesture.ReasonTooShort,
		},
		"two finger start": {
			start:      point{x: 300, y: 300, fingers: 2},
			end:        point{x: 100, y: 300, after: 100 * time.Millisecond, fingers: 1},
			startPage:  2,
			wantReason: gesture.ReasonNoStart,
		},
		"swipe right on first page": {
			start:      point{x: 100, y: 300, fingers: 1},
			end:        point{x: 300, y: 300, after: 100 * time.Millisecond, fingers: 1},
			startPage:  1,
			wantReason: gesture.ReasonBoundary,
			wantClass:  gesture.SwipeRight,
		},
		"swipe left on last page": {
			start:      point{x: 300, y: 300, fingers: 1},
			end:        point{x: 100, y: 300, after: 100 * time.Millisecond, fingers: 1},
			startPage:  3,
			wantReason: gesture.ReasonBoundary,
			wantClass:  gesture.SwipeLeft,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, 3, tc.startPage)

			f.touch(gesture.PhaseStart, tc.start.x, tc.start.y, tc.start.after, tc.start.fingers)
			out := f.touch(gesture.PhaseEnd, tc.end.x, tc.end.y, tc.end.after, tc.end.fingers)

			assert.False(t, out.Committed)
			assert.Equal(t, tc.wantReason, out.Reason)
			assert.Equal(t, tc.wantClass, out.Classification)

			state := f.nav.State()
			assert.Equal(t, tc.startPage, state.CurrentPage)
			assert.Equal(t, paging.DirectionNone, state.Direction)
			assert.False(t, state.IsAnimating)
			assert.Equal(t, gesture.IndicatorNone, f.rec.Indicator())
		})
	}
}

func TestRecognizer_TwoFingerStartKeepsTracking(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	out := f.touch(gesture.PhaseStart, 10, 10, 0, 2)
	assert.Equal(t, gesture.ReasonIgnored, out.Reason)

	out = f.touch(gesture.PhaseEnd, 100, 100, 100*time.Millisecond, 1)
	assert.True(t, out.Committed)
	assert.Equal(t, 2, f.nav.State().CurrentPage)
}

func TestRecognizer_EndResetsStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	out := f.touch(gesture.PhaseEnd, 290, 100, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.ReasonTooShort, out.Reason)

	out = f.touch(gesture.PhaseEnd, 100, 100, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.ReasonNoStart, out.Reason)
	assert.Equal(t, 1, f.nav.State().CurrentPage)
}

func TestRecognizer_Animating(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, 1)

	require.True(t, f.rec.Handle(gesture.KeyInput{Key: gesture.KeyArrowRight}).Committed)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	out := f.touch(gesture.PhaseEnd, 100, 100, 100*time.Millisecond, 1)

	assert.False(t, out.Committed)
	assert.Equal(t, gesture.ReasonAnimating, out.Reason)
	assert.Equal(t, 2, f.nav.State().CurrentPage)

	out = f.rec.Handle(gesture.KeyInput{Key: gesture.KeyArrowDown})
	assert.Equal(t, gesture.ReasonAnimating, out.Reason)

	f.clock.Advance(paging.DefaultLockDuration)

	out = f.rec.Handle(gesture.KeyInput{Key: gesture.KeyArrowDown})
	assert.True(t, out.Committed)
	assert.Equal(t, 3, f.nav.State().CurrentPage)
}

func TestRecognizer_KeysMatchSwipes(t *testing.T) {
	t.Parallel()

	swipe := func(f *fixture, fromX, toX float64) {
		f.touch(gesture.PhaseStart, fromX, 200, 0, 1)
		f.touch(gesture.PhaseEnd, toX, 200, 100*time.Millisecond, 1)
	}

	tcs := map[string]struct {
		key   gesture.Key
		fromX float64
		toX   float64
	}{
		"right is swipe left": {key: gesture.KeyArrowRight, fromX: 400, toX: 200},
		"down is swipe left":  {key: gesture.KeyArrowDown, fromX: 400, toX: 200},
		"left is swipe right": {key: gesture.KeyArrowLeft, fromX: 200, toX: 400},
		"up is swipe right":   {key: gesture.KeyArrowUp, fromX: 200, toX: 400},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			byKey := newFixture(t, 3, 2)
			bySwipe := newFixture(t, 3, 2)

			byKey.rec.Handle(gesture.KeyInput{Key: tc.key})
			swipe(bySwipe, tc.fromX, tc.toX)

			assert.Equal(t, bySwipe.nav.State(), byKey.nav.State())
		})
	}
}

func TestRecognizer_IgnoredKeys(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 2)

	for _, key := range []gesture.Key{"Enter", "a", "PageDown", ""} {
		out := f.rec.Handle(gesture.KeyInput{Key: key})
		assert.Equal(t, gesture.ReasonIgnored, out.Reason, "key %q", key)
	}

	assert.Equal(t, 2, f.nav.State().CurrentPage)
}

func TestRecognizer_MoveIndicator(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 2)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)

	f.touch(gesture.PhaseMove, 270, 100, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.IndicatorNone, f.rec.Indicator(), "below half the min distance")

	f.touch(gesture.PhaseMove, 255, 100, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.IndicatorLeft, f.rec.Indicator())

	f.touch(gesture.PhaseMove, 250, 180, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.IndicatorNone, f.rec.Indicator(), "vertical movement dominates")

	f.touch(gesture.PhaseMove, 350, 100, 10*time.Millisecond, 1)
	assert.Equal(t, gesture.IndicatorRight, f.rec.Indicator())

	assert.Equal(t, 2, f.nav.State().CurrentPage, "move never navigates")
	assert.Equal(t, []gesture.Indicator{
		gesture.IndicatorLeft,
		gesture.IndicatorNone,
		gesture.IndicatorRight,
	}, f.seen())
}

func TestRecognizer_MoveWithoutStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 2)

	out := f.touch(gesture.PhaseMove, 100, 100, 0, 1)
	assert.Equal(t, gesture.ReasonNoStart, out.Reason)
	assert.Equal(t, gesture.IndicatorNone, f.rec.Indicator())
}

func TestRecognizer_IndicatorClears(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	f.touch(gesture.PhaseEnd, 100, 100, 100*time.Millisecond, 1)
	require.Equal(t, gesture.IndicatorLeft, f.rec.Indicator())

	f.clock.Advance(gesture.DefaultIndicatorDelay - time.Millisecond)
	assert.Equal(t, gesture.IndicatorLeft, f.rec.Indicator())

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, gesture.IndicatorNone, f.rec.Indicator())
	assert.Equal(t, []gesture.Indicator{gesture.IndicatorLeft, gesture.IndicatorNone}, f.seen())
}

func TestRecognizer_StartCancelsClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1, gesture.WithIndicatorDelay(time.Second))

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	f.touch(gesture.PhaseEnd, 100, 100, 100*time.Millisecond, 1)
	f.clock.Advance(paging.DefaultLockDuration)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	f.touch(gesture.PhaseMove, 350, 100, 10*time.Millisecond, 1)
	require.Equal(t, gesture.IndicatorRight, f.rec.Indicator())

	// The clear scheduled by the first swipe must not wipe the live indicator.
	f.clock.Advance(time.Second)
	assert.Equal(t, gesture.IndicatorRight, f.rec.Indicator())
}

func TestRecognizer_Close(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1)

	f.touch(gesture.PhaseStart, 300, 100, 0, 1)
	f.touch(gesture.PhaseEnd, 100, 100, 100*time.Millisecond, 1)
	require.Equal(t, 2, f.clock.Pending())

	f.rec.Close()
	f.rec.Close()
	assert.Equal(t, 1, f.clock.Pending())

	f.clock.Advance(time.Second)

	out := f.rec.Handle(gesture.KeyInput{Key: gesture.KeyArrowRight})
	assert.Equal(t, gesture.ReasonClosed, out.Reason)
	assert.Equal(t, 2, f.nav.State().CurrentPage)
}

func TestRecognizer_CustomThresholds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, 1, gesture.WithThresholds(gesture.Thresholds{
		MinSwipeDistance: 10,
		MaxSwipeTime:     2 * time.Second,
	}))

	f.touch(gesture.PhaseStart, 100, 100, 0, 1)
	out := f.touch(gesture.PhaseEnd, 80, 100, time.Second, 1)

	assert.True(t, out.Committed)
	assert.Equal(t, 2, f.nav.State().CurrentPage)
}
