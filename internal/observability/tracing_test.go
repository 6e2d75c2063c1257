package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabledReturnsCallableShutdown(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown := InitTracing(context.Background(), TracingConfig{
		ServiceName: "soulmatch-service",
		Environment: "test",
	})

	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestTracingSampleRatioBounds(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0.1},
		{"garbage", 0.1},
		{"-2", 0},
		{"1.5", 1},
		{"0.25", 0.25},
	}

	for _, tc := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", tc.raw)
		require.Equal(t, tc.want, tracingSampleRatio(), "ratio %q", tc.raw)
	}
}
