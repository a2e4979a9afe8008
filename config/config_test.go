/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ProviderMemory, cfg.Storage.Provider)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
storage:
  provider: dynamodb
  region: us-east-1
  application_key: AKID
  private_key: SECRET
  authentication_token: TOKEN
  cluster: dev
  secure: true
  endpoint: localhost:8000
logging:
  level: debug
  format: console
metrics:
  datadog:
    enabled: true
    addr: localhost:8125
    namespace: records.
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	s := cfg.Storage
	assert.Equal(t, ProviderDynamoDB, s.Provider)
	assert.Equal(t, "us-east-1", s.Region)
	assert.Equal(t, "AKID", s.ApplicationKey)
	assert.Equal(t, "SECRET", s.PrivateKey)
	assert.Equal(t, "TOKEN", s.AuthToken)
	assert.Equal(t, "dev", s.Cluster)
	assert.True(t, s.Secure)
	assert.Equal(t, "localhost:8000", s.Endpoint)

	assert.True(t, cfg.Logging.Enabled, "defaults survive a partial logging block")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Datadog.Enabled)
	assert.Equal(t, "records.", cfg.Metrics.Datadog.Namespace)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "storage:\n  provider: memory\n")
	t.Setenv("STORAGE_PROVIDER", "badger")
	t.Setenv("STORAGE_DATA_DIR", "/tmp/records")
	t.Setenv("STORAGE_SECURE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderBadger, cfg.Storage.Provider)
	assert.Equal(t, "/tmp/records", cfg.Storage.DataDir)
	assert.True(t, cfg.Storage.Secure)

	t.Setenv("STORAGE_SECURE", "maybe")
	_, err = Load(path)
	assert.ErrorContains(t, err, "STORAGE_SECURE")
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown provider", "storage:\n  provider: cassandra\n", "Storage.Provider"},
		{"dynamodb needs region", "storage:\n  provider: dynamodb\n", "Storage.Region"},
		{"datadog needs addr", "metrics:\n  datadog:\n    enabled: true\n", "Datadog.Addr"},
		{"bad log level", "logging:\n  level: loud\n", "Logging.Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "storage: [not, a, map]\n"))
	assert.ErrorContains(t, err, "parse config")
}
