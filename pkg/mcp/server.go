package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/flip/pkg/log"
	"github.com/macropower/flip/pkg/paging"
	"github.com/macropower/flip/pkg/session"
	"github.com/macropower/flip/pkg/version"
)

// AddressStdio selects the stdio transport.
const AddressStdio = "stdio"

const shutdownTimeout = 5 * time.Second

// Server implements the MCP server for flip.
type Server struct {
	sess          *session.Session
	server        *mcp.Server
	tracer        trace.Tracer
	address       string
	maxPageLength int
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithMaxPageLength sets the number of bytes read_page returns before
// truncating. Zero or less disables truncation.
func WithMaxPageLength(n int) ServerOpt {
	return func(s *Server) {
		s.maxPageLength = n
	}
}

// NewServer creates a new MCP server over sess. An empty address or
// [AddressStdio] serves over stdio, anything else is an HTTP listen
// address for the streamable HTTP transport.
func NewServer(address string, sess *session.Session, opts ...ServerOpt) (*Server, error) {
	if sess == nil {
		return nil, session.ErrNoBook
	}

	turnSchema, err := newTurnPageSchema()
	if err != nil {
		return nil, err
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: version.Get(),
	}

	s := &Server{
		address:       address,
		sess:          sess,
		server:        mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:        otel.Tracer("mcp"),
		maxPageLength: DefaultMaxPageLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerTools(turnSchema)

	return s, nil
}

// newTurnPageSchema infers the turn_page input schema and restricts the
// direction to the values the handler accepts.
func newTurnPageSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[TurnPageParams](nil)
	if err != nil {
		return nil, fmt.Errorf("infer turn_page schema: %w", err)
	}

	direction, ok := schema.Properties["direction"]
	if !ok {
		return nil, errors.New("infer turn_page schema: no direction property")
	}

	direction.Enum = []any{paging.DirectionNext.String(), paging.DirectionPrev.String()}

	return schema, nil
}

func (s *Server) registerTools(turnSchema *jsonschema.Schema) {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_state",
		Description: "Get the reader's position: current page number, page count, page title, and whether a page turn is still settling.",
	}, WithTracing(s.tracer, s.handleGetState))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_page",
		Description: "Read the markdown of the page the user is currently looking at.",
	}, WithTracing(s.tracer, s.handleReadPage))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "turn_page",
		Description: `Turn one page. The direction MUST be "next" or "prev". Reports whether the page changed, and why not if it did not.`,
		InputSchema: turnSchema,
	}, WithTracing(s.tracer, s.handleTurnPage))
}

// Server returns the underlying SDK server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve runs the MCP server until ctx is canceled or the client goes away.
func (s *Server) Serve(ctx context.Context) error {
	logger := log.WithContext(ctx)

	if s.address == "" || s.address == AddressStdio {
		logger.InfoContext(ctx, "starting MCP server", slog.String("transport", AddressStdio))

		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	logger.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server failed: %w", err)
		}

		return nil

	case <-ctx.Done():
	}

	//nolint:contextcheck // The parent is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr}

	err := s.server.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
