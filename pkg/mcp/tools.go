package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/flip/pkg/gesture"
	"github.com/macropower/flip/pkg/paging"
)

// ErrInvalidDirection is returned by turn_page for anything but "next" or
// "prev".
var ErrInvalidDirection = errors.New("invalid direction")

// GetStateParams defines parameters for the get_state tool.
type GetStateParams struct{}

// StateResult describes the reader's position.
type StateResult struct {
	Book      string `json:"book"      jsonschema:"name of the book being read"`
	Title     string `json:"title"     jsonschema:"title of the current page"`
	Slug      string `json:"slug"      jsonschema:"ASCII slug of the current page title"`
	Direction string `json:"direction" jsonschema:"direction of the last page turn: none, next or prev"`
	Page      int    `json:"page"      jsonschema:"current page number, starting at 1"`
	Pages     int    `json:"pages"     jsonschema:"number of pages in the book"`
	Animating bool   `json:"animating" jsonschema:"true while a page turn is settling"`
}

// ReadPageParams defines parameters for the read_page tool.
type ReadPageParams struct{}

// ReadPageResult contains the current page.
type ReadPageResult struct {
	Title     string `json:"title"`
	Markdown  string `json:"markdown"  jsonschema:"markdown source of the current page"`
	Page      int    `json:"page"`
	Pages     int    `json:"pages"`
	Truncated bool   `json:"truncated" jsonschema:"true if the markdown was cut short"`
}

// TurnPageParams defines parameters for the turn_page tool.
type TurnPageParams struct {
	Direction string `json:"direction" jsonschema:"either next or prev"`
}

// TurnPageResult reports what a turn_page call did.
type TurnPageResult struct {
	Reason  string      `json:"reason,omitempty" jsonschema:"why the page did not turn, e.g. animating or boundary"`
	State   StateResult `json:"state"`
	Changed bool        `json:"changed"          jsonschema:"true if the page turned"`
}

func (s *Server) stateResult() StateResult {
	state := s.sess.State()
	page := s.sess.Page()

	return StateResult{
		Book:      s.sess.Book().Name,
		Title:     page.Title,
		Slug:      page.Slug(),
		Direction: state.Direction.String(),
		Page:      state.CurrentPage,
		Pages:     state.PagesCount,
		Animating: state.IsAnimating,
	}
}

func (s *Server) handleGetState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetStateParams,
) (*mcp.CallToolResult, StateResult, error) {
	result := s.stateResult()

	return textResult(fmt.Sprintf("Page %d of %d: %s", result.Page, result.Pages, result.Title)), result, nil
}

func (s *Server) handleReadPage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ReadPageParams,
) (*mcp.CallToolResult, ReadPageResult, error) {
	state := s.sess.State()
	page := s.sess.Page()

	md, truncated := truncateString(page.Body, s.maxPageLength)

	result := ReadPageResult{
		Title:     page.Title,
		Markdown:  md,
		Page:      state.CurrentPage,
		Pages:     state.PagesCount,
		Truncated: truncated,
	}

	return textResult(md), result, nil
}

func (s *Server) handleTurnPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params TurnPageParams,
) (*mcp.CallToolResult, TurnPageResult, error) {
	var key gesture.Key

	switch params.Direction {
	case paging.DirectionNext.String():
		key = gesture.KeyArrowRight
	case paging.DirectionPrev.String():
		key = gesture.KeyArrowLeft
	default:
		return nil, TurnPageResult{}, fmt.Errorf("%w: %q", ErrInvalidDirection, params.Direction)
	}

	out := s.sess.Dispatch(ctx, gesture.KeyInput{Key: key})

	result := TurnPageResult{
		Changed: out.Committed,
		State:   s.stateResult(),
	}

	msg := fmt.Sprintf("Turned to page %d of %d: %s", result.State.Page, result.State.Pages, result.State.Title)

	if !out.Committed {
		result.Reason = out.Reason.String()
		msg = fmt.Sprintf("Page did not turn (%s), still on page %d of %d.",
			result.Reason, result.State.Page, result.State.Pages)
	}

	return textResult(msg), result, nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
