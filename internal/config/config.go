package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"5000"`

	SecretKeyword     string `env:"SECRET_KEYWORD"`
	SecretKeywordHash string `env:"SECRET_KEYWORD_HASH"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URI"`

	FrontendURL string `env:"FRONTEND_URL"`
	LoginURL    string `env:"LOGIN_URL"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	OAuthHTTPTimeout time.Duration `env:"OAUTH_HTTP_TIMEOUT" envDefault:"10s"`

	SessionBackend string `env:"SESSION_BACKEND" envDefault:"memory"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
}

// Load reads an optional dotenv file and then parses the environment.
// A missing file is not an error: deployments usually inject variables directly.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if len(cfg.AllowedOrigins) == 0 {
		for _, o := range []string{cfg.FrontendURL, cfg.LoginURL} {
			if o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.SecretKeyword == "" && c.SecretKeywordHash == "" {
		return errors.New("config: SECRET_KEYWORD or SECRET_KEYWORD_HASH is required")
	}
	if c.GitHubClientID == "" || c.GitHubClientSecret == "" || c.GitHubRedirectURL == "" {
		return errors.New("config: GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET and GITHUB_REDIRECT_URI are required")
	}
	if c.FrontendURL == "" || c.LoginURL == "" {
		return errors.New("config: FRONTEND_URL and LOGIN_URL are required")
	}
	if c.OAuthHTTPTimeout <= 0 {
		return errors.New("config: OAUTH_HTTP_TIMEOUT must be positive")
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	return nil
}
