package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables the tests touch; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SAFE_APP_ENV", "SAFE_APP_PORT", "SAFE_DATABASE_HOST", "SAFE_DATABASE_PASSWORD",
		"SAFE_DATABASE_SSLMODE", "SAFE_DATABASE_MAX_OPEN_CONNS", "SAFE_DATABASE_MAX_IDLE_CONNS",
		"SAFE_JWT_SECRET", "SAFE_SUMMARIZER_PROVIDER", "SAFE_SUMMARIZER_API_KEY",
		"SAFE_SUMMARIZER_TIMEOUT", "SAFE_STORAGE_ENABLED", "SAFE_STORAGE_ACCESS_KEY",
		"SAFE_STORAGE_SECRET_KEY", "SAFE_EMAIL_API_KEY", "SAFE_EMAIL_FROM",
		"SAFE_ESIGN_ACCOUNT_ID", "SAFE_ESIGN_ACCESS_TOKEN", "SAFE_TELEMETRY_SAMPLING_RATIO",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "safe-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "safe", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "none", cfg.Summarizer.Provider)
	assert.Equal(t, 30*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "https://api.resend.com", cfg.Email.BaseURL)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAFE_APP_PORT", "9000")
	t.Setenv("SAFE_DATABASE_HOST", "db.internal")
	t.Setenv("SAFE_SUMMARIZER_PROVIDER", "anthropic")
	t.Setenv("SAFE_SUMMARIZER_API_KEY", "sk-test")
	t.Setenv("SAFE_SUMMARIZER_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "anthropic", cfg.Summarizer.Provider)
	assert.Equal(t, 10*time.Second, cfg.Summarizer.Timeout)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle exceeds open",
			env:     map[string]string{"SAFE_DATABASE_MAX_OPEN_CONNS": "10", "SAFE_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative idle",
			env:     map[string]string{"SAFE_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"SAFE_SUMMARIZER_PROVIDER": "gemini"},
			wantErr: "summarizer.provider must be one of",
		},
		{
			name:    "provider without key",
			env:     map[string]string{"SAFE_SUMMARIZER_PROVIDER": "openai"},
			wantErr: "summarizer.api_key is required",
		},
		{
			name:    "summarizer timeout above bound",
			env:     map[string]string{"SAFE_SUMMARIZER_TIMEOUT": "45s"},
			wantErr: "cannot exceed 30s",
		},
		{
			name:    "storage without credentials",
			env:     map[string]string{"SAFE_STORAGE_ENABLED": "true"},
			wantErr: "storage.access_key",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"SAFE_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SAFE_APP_ENV", "production")
		t.Setenv("SAFE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("SAFE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("SAFE_DATABASE_SSLMODE", "require")
		t.Setenv("SAFE_EMAIL_API_KEY", "re_test")
		t.Setenv("SAFE_EMAIL_FROM", "deals@example.com")
		t.Setenv("SAFE_ESIGN_ACCOUNT_ID", "acct-1")
		t.Setenv("SAFE_ESIGN_ACCESS_TOKEN", "token")
	}

	t.Run("passes with valid production config", func(t *testing.T) {
		setValidProductionBase(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"short jwt secret", "SAFE_JWT_SECRET", "short", "jwt.secret must be at least 32 characters"},
		{"missing db password", "SAFE_DATABASE_PASSWORD", "", "database.password is required"},
		{"ssl disabled", "SAFE_DATABASE_SSLMODE", "disable", "database.sslmode cannot be 'disable'"},
		{"missing email key", "SAFE_EMAIL_API_KEY", "", "email.api_key and email.from"},
		{"missing esign token", "SAFE_ESIGN_ACCESS_TOKEN", "", "esign.account_id and esign.access_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "safe", SSLMode: "disable"}
		dsn := cfg.DSN()
		assert.Equal(t, "postgres://u:p@localhost:5432/safe?sslmode=disable", dsn)
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
