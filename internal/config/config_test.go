package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skagos/emr-front/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":5001", cfg.ListenAddress)
	require.Equal(t, "http://localhost:8042", cfg.OrthancURL)
	require.Equal(t, "http://localhost:8042/ohif/viewer", cfg.ViewerURL)
	require.Equal(t, "http://localhost:8080", cfg.ClinicAPIURL)
	require.Equal(t, 15*time.Second, cfg.HTTPClientTimeout)
	require.False(t, cfg.Debug)
	require.Empty(t, cfg.OtelEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDRESS", ":9999")
	t.Setenv("ORTHANC_URL", "http://pacs.internal:8042")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "30")
	t.Setenv("DEBUG", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.ListenAddress)
	require.Equal(t, "http://pacs.internal:8042", cfg.OrthancURL)
	require.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	require.True(t, cfg.Debug)
	require.Equal(t, "collector:4317", cfg.OtelEndpoint)
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "not-a-number")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.HTTPClientTimeout)
}
