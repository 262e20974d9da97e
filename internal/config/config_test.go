package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, "deepchat", cfg.Mongo.Database)
	assert.Equal(t, "dev_", cfg.Postgres.TablePrefix)
	assert.Equal(t, "openrouter/deepseek/deepseek-chat-v3-0324:free", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Debug)
}

func TestLoadProdDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "PROD")
	t.Setenv("TABLE_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "prod_", cfg.Postgres.TablePrefix)
	assert.False(t, cfg.Debug)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown driver",
			env:     map[string]string{"STORAGE_DRIVER": "sqlite"},
			wantErr: "unknown STORAGE_DRIVER",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "memory in prod",
			env:     map[string]string{"STORAGE_DRIVER": "memory", "ENVIRONMENT": "prod"},
			wantErr: "not allowed in prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestListSplitting(t *testing.T) {
	cfg := &Config{
		CORSOrigins: "http://a.test, http://b.test,,",
		Auth:        AuthConfig{AuthorizedParties: " https://app.test "},
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOriginList())
	assert.Equal(t, []string{"https://app.test"}, cfg.AuthorizedParties())
	assert.Nil(t, (&Config{}).AuthorizedParties())
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	logger, closer := NewLogger(&Config{Logging: LoggingConfig{File: path}})
	logger.Info("hello")
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}
