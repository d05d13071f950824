// Package paging holds the navigation state of a paged document.
//
// A [Navigator] owns the current page, the direction of the most recent
// transition, and an animation lock that rejects every command while a
// transition is in progress. The lock clears itself after a fixed duration
// using a cancelable timer obtained from a [Scheduler].
//
// Boundary and lock violations are policy rejections: [Navigator.GoNext] and
// [Navigator.GoPrev] report them by returning false, never as errors.
package paging
