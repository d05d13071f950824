package mcp_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/flip/pkg/book"
	"github.com/macropower/flip/pkg/mcp"
	"github.com/macropower/flip/pkg/paging"
	"github.com/macropower/flip/pkg/paging/pagingtest"
	"github.com/macropower/flip/pkg/session"
)

const doc = "# Intro\nhello\n---\n# Middle\nbody\n---\n# End\nbye"

func newClient(t *testing.T, opts ...mcp.ServerOpt) (*sdk.ClientSession, *session.Session, *pagingtest.Clock) {
	t.Helper()

	ctx := t.Context()

	b, err := book.Parse(ctx, "guide.md", []byte(doc))
	require.NoError(t, err)

	clock := pagingtest.NewClock(time.Unix(0, 0))

	sess, err := session.New(b, session.Config{Scheduler: clock})
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	srv, err := mcp.NewServer("", sess, opts...)
	require.NoError(t, err)

	ct, st := sdk.NewInMemoryTransports()

	ss, err := srv.Server().Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0.0.0"}, nil)

	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs, sess, clock
}

func call[T any](t *testing.T, cs *sdk.ClientSession, tool string, args map[string]any) (T, *sdk.CallToolResult) {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{Name: tool, Arguments: args})
	require.NoError(t, err)

	var out T
	if res.IsError {
		return out, res
	}

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))

	return out, res
}

func text(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)

	tc, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])

	return tc.Text
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	_, err := mcp.NewServer("", nil)
	require.ErrorIs(t, err, session.ErrNoBook)
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	cs, _, _ := newClient(t)

	res, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}

	assert.ElementsMatch(t, []string{"get_state", "read_page", "turn_page"}, names)
}

func TestServer_GetState(t *testing.T) {
	t.Parallel()

	cs, _, _ := newClient(t)

	state, res := call[mcp.StateResult](t, cs, "get_state", nil)
	assert.Equal(t, mcp.StateResult{
		Book:      "guide.md",
		Title:     "Intro",
		Slug:      "intro",
		Direction: "none",
		Page:      1,
		Pages:     3,
	}, state)
	assert.Equal(t, "Page 1 of 3: Intro", text(t, res))
}

func TestServer_ReadPage(t *testing.T) {
	t.Parallel()

	cs, _, _ := newClient(t)

	page, _ := call[mcp.ReadPageResult](t, cs, "read_page", nil)
	assert.Equal(t, "Intro", page.Title)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Contains(t, page.Markdown, "hello")
	assert.False(t, page.Truncated)
}

func TestServer_ReadPageTruncated(t *testing.T) {
	t.Parallel()

	cs, _, _ := newClient(t, mcp.WithMaxPageLength(4))

	page, _ := call[mcp.ReadPageResult](t, cs, "read_page", nil)
	assert.True(t, page.Truncated)
	assert.True(t, strings.HasSuffix(page.Markdown, "[OUTPUT TRUNCATED]"))
}

func TestServer_TurnPage(t *testing.T) {
	t.Parallel()

	cs, sess, clock := newClient(t)

	got, res := call[mcp.TurnPageResult](t, cs, "turn_page", map[string]any{"direction": "next"})
	assert.True(t, got.Changed)
	assert.Empty(t, got.Reason)
	assert.Equal(t, 2, got.State.Page)
	assert.Equal(t, "Middle", got.State.Title)
	assert.True(t, got.State.Animating)
	assert.Equal(t, "Turned to page 2 of 3: Middle", text(t, res))

	// The animation lock is shared with every other input source.
	got, _ = call[mcp.TurnPageResult](t, cs, "turn_page", map[string]any{"direction": "next"})
	assert.False(t, got.Changed)
	assert.Equal(t, "animating", got.Reason)

	clock.Advance(paging.DefaultLockDuration)

	got, _ = call[mcp.TurnPageResult](t, cs, "turn_page", map[string]any{"direction": "prev"})
	assert.True(t, got.Changed)
	assert.Equal(t, 1, sess.State().CurrentPage)
	assert.Equal(t, "prev", got.State.Direction)

	clock.Advance(paging.DefaultLockDuration)

	got, res = call[mcp.TurnPageResult](t, cs, "turn_page", map[string]any{"direction": "prev"})
	assert.False(t, got.Changed)
	assert.Equal(t, "boundary", got.Reason)
	assert.Contains(t, text(t, res), "did not turn (boundary)")
}

func TestServer_TurnPageInvalidDirection(t *testing.T) {
	t.Parallel()

	cs, sess, _ := newClient(t)

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "turn_page",
		Arguments: map[string]any{"direction": "sideways"},
	})
	if err == nil {
		// Rejected by the handler rather than by schema validation.
		assert.True(t, res.IsError)
	}

	assert.Equal(t, 1, sess.State().CurrentPage)
}

func TestServer_TurnPageSchema(t *testing.T) {
	t.Parallel()

	cs, _, _ := newClient(t)

	res, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)

	for _, tool := range res.Tools {
		if tool.Name != "turn_page" {
			continue
		}

		raw, err := json.Marshal(tool.InputSchema)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"enum":["next","prev"]`)

		return
	}

	t.Fatal("turn_page not listed")
}
