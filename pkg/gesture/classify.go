package gesture

import (
	"math"
	"time"
)

const (
	// DefaultMinSwipeDistance is the horizontal distance a swipe must exceed.
	DefaultMinSwipeDistance = 80.0
	// DefaultMaxSwipeTime is the longest a swipe may take.
	DefaultMaxSwipeTime = 500 * time.Millisecond
	// DominanceRatio is how many times larger the horizontal movement must
	// be than the vertical movement.
	DominanceRatio = 1.5
	// DefaultIndicatorDelay is how long the indicator stays up after a
	// committed swipe.
	DefaultIndicatorDelay = 300 * time.Millisecond
)

// Thresholds are the limits used by [Classify].
type Thresholds struct {
	MinSwipeDistance float64
	MaxSwipeTime     time.Duration
}

// DefaultThresholds returns the default [Thresholds].
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSwipeDistance: DefaultMinSwipeDistance,
		MaxSwipeTime:     DefaultMaxSwipeTime,
	}
}

// Classification is the result of classifying a touch gesture.
type Classification int

const (
	ClassificationNone Classification = iota
	// SwipeLeft moves content left, revealing the next page.
	SwipeLeft
	// SwipeRight moves content right, revealing the previous page.
	SwipeRight
)

func (c Classification) String() string {
	switch c {
	case SwipeLeft:
		return "swipe-left"
	case SwipeRight:
		return "swipe-right"
	case ClassificationNone:
	}

	return "none"
}

// Reason explains why input did not navigate.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonIgnored is input the recognizer does not handle.
	ReasonIgnored
	// ReasonNoStart is a touch end or move without a tracked start.
	ReasonNoStart
	// ReasonAnimating means a transition was in progress.
	ReasonAnimating
	// ReasonSlow means the gesture took longer than the maximum swipe time.
	ReasonSlow
	// ReasonNotDominant means the gesture was not horizontal enough.
	ReasonNotDominant
	// ReasonTooShort means the gesture did not travel far enough.
	ReasonTooShort
	// ReasonBoundary means there is no page in that direction.
	ReasonBoundary
	// ReasonClosed means the recognizer was closed.
	ReasonClosed
)

func (r Reason) String() string {
	switch r {
	case ReasonIgnored:
		return "ignored"
	case ReasonNoStart:
		return "no-start"
	case ReasonAnimating:
		return "animating"
	case ReasonSlow:
		return "slow"
	case ReasonNotDominant:
		return "not-dominant"
	case ReasonTooShort:
		return "too-short"
	case ReasonBoundary:
		return "boundary"
	case ReasonClosed:
		return "closed"
	case ReasonNone:
	}

	return "none"
}

// Classify classifies the gesture from start to end. Deltas are measured
// from end to start, so a positive horizontal delta is a swipe to the left.
func Classify(start, end Sample, th Thresholds) (Classification, Reason) {
	if end.Time.Sub(start.Time) > th.MaxSwipeTime {
		return ClassificationNone, ReasonSlow
	}

	dx := start.X - end.X
	dy := start.Y - end.Y

	if math.Abs(dx) <= math.Abs(dy)*DominanceRatio {
		return ClassificationNone, ReasonNotDominant
	}

	if math.Abs(dx) <= th.MinSwipeDistance {
		return ClassificationNone, ReasonTooShort
	}

	if dx > 0 {
		return SwipeLeft, ReasonNone
	}

	return SwipeRight, ReasonNone
}
