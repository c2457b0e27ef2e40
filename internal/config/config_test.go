package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
neo4j:
  username: neo4j
  password: secret
  host: localhost
  port: 7687
  endpoint: forensics
  protocol: bolt
  query_timeout: 10s
seed:
  chunk_size: 250
  random_seed: 42
logging:
  level: debug
  format: json
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.Address())
	assert.Equal(t, "forensics", cfg.Neo4j.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Neo4j.QueryTimeout)
	assert.Equal(t, 300*time.Second, cfg.Neo4j.BatchTimeout, "default")

	assert.Equal(t, 250, cfg.Seed.ChunkSize)
	assert.Equal(t, int64(42), cfg.Seed.RandomSeed)
	assert.Equal(t, 1000, cfg.Seed.People)
	assert.Equal(t, 880, cfg.Seed.Employment)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "forensics", cfg.Metrics.Job)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FORENSICS_NEO4J_PASSWORD", "from-env")
	t.Setenv("FORENSICS_SEED_CHUNK_SIZE", "10")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Neo4j.Password)
	assert.Equal(t, 10, cfg.Seed.ChunkSize)
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv("FORENSICS_NEO4J_USERNAME", "neo4j")
	t.Setenv("FORENSICS_NEO4J_PASSWORD", "secret")
	t.Setenv("FORENSICS_NEO4J_HOST", "db.internal")
	t.Setenv("FORENSICS_NEO4J_PORT", "7688")
	t.Setenv("FORENSICS_NEO4J_ENDPOINT", "neo4j")
	t.Setenv("FORENSICS_NEO4J_PROTOCOL", "neo4j+s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "neo4j+s://db.internal:7688", cfg.Neo4j.Address())
}

func TestLoad_MissingKeysAreConfigurationErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "neo4j:\n  host: localhost\n  port: 7687\n"))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{"neo4j.username", "neo4j.password", "neo4j.endpoint"}, cfgErr.Keys)
	assert.ErrorContains(t, err, "neo4j.username is required")
}

func TestLoad_MalformedValues(t *testing.T) {
	const neo4jBlock = "neo4j:\n  username: neo4j\n  password: secret\n  endpoint: neo4j\n"

	tests := []struct {
		name string
		yaml string
		key  string
	}{
		{"port out of range", neo4jBlock + "  host: localhost\n  port: 70000\n", "neo4j.port"},
		{"unknown protocol", neo4jBlock + "  host: localhost\n  port: 7687\n  protocol: http\n", "neo4j.protocol"},
		{"bad host", neo4jBlock + "  host: \"not a host\"\n  port: 7687\n", "neo4j.host"},
		{"log format", neo4jBlock + "  host: localhost\n  port: 7687\nlogging:\n  format: xml\n", "logging.format"},
		{"pushgateway", neo4jBlock + "  host: localhost\n  port: 7687\nmetrics:\n  pushgateway: not a url\n", "metrics.pushgateway"},
		{"chunk size", neo4jBlock + "  host: localhost\n  port: 7687\nseed:\n  chunk_size: 0\n", "seed.chunk_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, []string{tt.key}, cfgErr.Keys)
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, cfgErr.Keys)
	assert.ErrorContains(t, err, "failed to read config file")
}
