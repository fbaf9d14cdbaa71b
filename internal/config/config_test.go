package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SECRET_KEYWORD", "letmein")
	t.Setenv("GITHUB_CLIENT_ID", "client-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "client-secret")
	t.Setenv("GITHUB_REDIRECT_URI", "http://localhost:5000/auth/github/callback")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("LOGIN_URL", "https://login.example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.AppPort)
	require.Equal(t, BackendMemory, cfg.SessionBackend)
	require.Equal(t, 10*time.Second, cfg.OAuthHTTPTimeout)
	require.Equal(t, []string{"https://app.example.com", "https://login.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_ExplicitOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_EnvFile(t *testing.T) {
	setRequiredEnv(t)
	t.Cleanup(func() { _ = os.Unsetenv("REDIS_PASSWORD") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_PASSWORD=from-file\nSECRET_KEYWORD=ignored\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.RedisPassword)
	// variables already present in the environment win over the file
	require.Equal(t, "letmein", cfg.SecretKeyword)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		SecretKeyword:      "letmein",
		GitHubClientID:     "id",
		GitHubClientSecret: "secret",
		GitHubRedirectURL:  "http://localhost/callback",
		FrontendURL:        "https://app.example.com",
		LoginURL:           "https://login.example.com",
		OAuthHTTPTimeout:   time.Second,
		SessionBackend:     BackendMemory,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing keyword", mutate: func(c *Config) { c.SecretKeyword = "" }, wantErr: "SECRET_KEYWORD"},
		{name: "missing client id", mutate: func(c *Config) { c.GitHubClientID = "" }, wantErr: "GITHUB_CLIENT_ID"},
		{name: "missing login url", mutate: func(c *Config) { c.LoginURL = "" }, wantErr: "LOGIN_URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.OAuthHTTPTimeout = 0 }, wantErr: "OAUTH_HTTP_TIMEOUT"},
		{name: "unknown backend", mutate: func(c *Config) { c.SessionBackend = "etcd" }, wantErr: "SESSION_BACKEND"},
		{name: "redis without addr", mutate: func(c *Config) {
			c.SessionBackend = BackendRedis
			c.RedisAddr = ""
		}, wantErr: "REDIS_ADDR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
