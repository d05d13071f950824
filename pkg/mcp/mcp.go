// Package mcp exposes a reading [session.Session] over the Model Context
// Protocol, so an agent can follow along with, or drive, the reader.
package mcp

const (
	name         = "flip"
	instructions = `MCP Server 'flip' gives access to the book a user is currently reading in a terminal pager.

Tools:
- 'get_state' returns the current page number, the page count, and the title of the current page.
- 'read_page' returns the markdown of the current page.
- 'turn_page' turns one page forward ("next") or back ("prev").

Page turns share an animation lock with the user's own input. A turn requested while a previous
turn is still settling is rejected with reason "animating"; wait briefly and try again.
Turns past the first or last page are rejected with reason "boundary".
`

	// DefaultMaxPageLength bounds the markdown returned by read_page.
	DefaultMaxPageLength = 16 * 1024
)

// truncateString truncates a string to maxLen bytes, marking the cut.
func truncateString(str string, maxLen int) (string, bool) {
	if maxLen <= 0 || len(str) <= maxLen {
		return str, false
	}

	return str[:maxLen] + "\n[OUTPUT TRUNCATED]", true
}
