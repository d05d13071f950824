// Package gesture turns raw keyboard and touch input into page navigation.
//
// Input arrives as an [Input], which is either a [KeyInput] or a
// [TouchInput]. A [Recognizer] tracks a single-finger touch from start to
// end, classifies it with [Classify], and calls the matching transition on
// its [Navigator]. Move events only drive the swipe [Indicator]; the end
// event is the only one that can navigate.
//
// Rejected input is never an error. Every call to [Recognizer.Handle]
// returns an [Outcome] that records whether navigation was committed and,
// if not, the [Reason].
package gesture
