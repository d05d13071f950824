package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/macropower/flip/internal/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.Setup(t.Context(), "")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := telemetry.NewTracerProvider(exporter)

	_, span := tp.Tracer("test").Start(t.Context(), "turn")
	span.End()

	require.NoError(t, tp.ForceFlush(t.Context()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "turn", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "flip"))

	require.NoError(t, tp.Shutdown(t.Context()))
}
