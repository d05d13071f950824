package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/flip/pkg/log"
)

// WithTracing wraps a tool handler with a span and structured logging.
// Errors are recorded on the span before being returned to the SDK, which
// reports them to the client as a tool error.
func WithTracing[In, Out any](tracer trace.Tracer, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		name := req.Params.Name

		ctx, span := tracer.Start(ctx, name)
		defer span.End()

		logger := log.WithContext(ctx)
		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("args", in),
		)

		res, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)

			return res, out, err
		}

		logger.DebugContext(ctx, "tool call completed", slog.String("name", name))

		return res, out, nil
	}
}
