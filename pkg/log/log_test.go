package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/flip/pkg/log"
)

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level    string
		format   string
		contains string
		wantErr  error
	}{
		"json": {
			level:    "info",
			format:   "json",
			contains: `"msg":"hello"`,
		},
		"logfmt": {
			level:    "INFO",
			format:   "logfmt",
			contains: "msg=hello",
		},
		"text": {
			level:    "warning",
			format:   "text",
			contains: "hello",
		},
		"unknown level": {
			level:   "loud",
			format:  "json",
			wantErr: log.ErrUnknownLogLevel,
		},
		"unknown format": {
			level:   "info",
			format:  "xml",
			wantErr: log.ErrUnknownLogFormat,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.CreateHandlerWithStrings(&buf, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)

			logger := slog.New(h)
			logger.Debug("hidden")
			logger.Error("hello")

			assert.Contains(t, buf.String(), tc.contains)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := log.NewContext(context.Background(), logger)

	log.WithContext(ctx).Info("stored")
	assert.Contains(t, buf.String(), "msg=stored")
	assert.NotContains(t, buf.String(), "trace_id")

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	buf.Reset()
	log.WithContext(ctx).Info("traced")
	assert.Contains(t, buf.String(), "trace_id=01234567")

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))
}
