package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_BaselineValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "sqs", cfg.QueueBackend)
	assert.Equal(t, 50, cfg.WorkerCount)
	assert.Equal(t, 60*time.Second, cfg.VisibilityTimeout)
}

func TestLoad_NoFile_AppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("REPRICER_ENV", "staging")
	t.Setenv("REPRICER_WORKER_COUNT", "12")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 12, cfg.WorkerCount)
}

func TestLoad_FromYAMLFile_EnvOverridesFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "repricer-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("environment: qa\nworker_count: 7\nqueue_backend: kafka\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	t.Setenv("REPRICER_ENV", "prod")
	cfg, err := Load(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Environment) // env wins over file
	assert.Equal(t, 7, cfg.WorkerCount)      // file wins over default
	assert.Equal(t, "kafka", cfg.QueueBackend)
}

func TestLoad_MissingFile_FallsBackToDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().WorkerCount, cfg.WorkerCount)
}
