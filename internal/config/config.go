package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	ListenAddress     string
	OrthancURL        string
	ViewerURL         string
	ClinicAPIURL      string
	HTTPClientTimeout time.Duration
	Debug             bool

	OtelEndpoint       string
	OtelServiceName    string
	OtelServiceVersion string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddress: GetEnv("LISTEN_ADDRESS", ":5001"),
		OrthancURL:    GetEnv("ORTHANC_URL", "http://localhost:8042"),
		ViewerURL:     GetEnv("VIEWER_URL", "http://localhost:8042/ohif/viewer"),
		ClinicAPIURL:  GetEnv("CLINIC_API_URL", "http://localhost:8080"),

		// OTel is optional: providers are only started when an endpoint is set.
		OtelEndpoint:       GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelServiceName:    GetEnv("OTEL_SERVICE_NAME", "pacs-gateway"),
		OtelServiceVersion: GetEnv("OTEL_SERVICE_VERSION", "1.0.0"),
	}

	timeoutStr := GetEnv("HTTP_CLIENT_TIMEOUT_SECONDS", "15")
	timeoutSec, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSec <= 0 {
		cfg.HTTPClientTimeout = 15 * time.Second
	} else {
		cfg.HTTPClientTimeout = time.Duration(timeoutSec) * time.Second
	}

	debugStr := GetEnv("DEBUG", "false")
	cfg.Debug, _ = strconv.ParseBool(debugStr)

	return cfg, nil
}

// GetEnv retrieves an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
