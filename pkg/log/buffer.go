package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBufferCapacity is used when [NewCircularBuffer] is given a
// capacity below one.
const DefaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent writes.
// Once full, each write replaces the oldest entry. It is used to hold log
// output while the TUI owns the terminal.
type CircularBuffer struct {
	entries [][]byte
	next    int
	count   int
	mu      sync.RWMutex
}

// NewCircularBuffer creates a new [CircularBuffer] holding up to capacity
// entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write implements [io.Writer]. Each call stores one entry; p is copied.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.entries[cb.next] = append([]byte(nil), p...)
	cb.next = (cb.next + 1) % len(cb.entries)
	cb.count = min(cb.count+1, len(cb.entries))

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.count == 0 {
		return nil
	}

	out := make([][]byte, 0, cb.count)
	first := (cb.next - cb.count + len(cb.entries)) % len(cb.entries)

	for i := range cb.count {
		entry := cb.entries[(first+i)%len(cb.entries)]
		out = append(out, append([]byte(nil), entry...))
	}

	return out
}

// Len returns the number of stored entries.
func (cb *CircularBuffer) Len() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.count
}

// Cap returns the maximum number of entries.
func (cb *CircularBuffer) Cap() int {
	return len(cb.entries)
}

// Reset discards all entries.
func (cb *CircularBuffer) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.entries)
	cb.next = 0
	cb.count = 0
}

// WriteTo implements [io.WriterTo], writing entries oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write entry: %w", err)
		}
	}

	return total, nil
}
