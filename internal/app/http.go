package app

import (
	"context"
	"net/http"

	"auth-gateway/internal/auth/broker"
	"auth-gateway/internal/auth/handler"
	"auth-gateway/internal/auth/keyword"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/provider/github"
	"auth-gateway/internal/auth/resolver"
	"auth-gateway/internal/config"
	"auth-gateway/internal/metrics"
	"auth-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func setupHTTP(ctx context.Context, cfg config.Config) (http.Handler, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router, err := newRouter(cfg, infra, metrics.New())
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return withCORS(cfg, router), infra.Close, nil
}

func newRouter(cfg config.Config, infra *Infra, m *metrics.Metrics) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	githubProvider, err := github.New(github.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
		Timeout:      cfg.OAuthHTTPTimeout,
	})
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry(githubProvider)

	keywords, err := keyword.NewAuthenticator(infra.Sessions, cfg.SecretKeyword, cfg.SecretKeywordHash)
	if err != nil {
		return nil, err
	}

	oauthBroker, err := broker.New(registry, infra.Sessions, cfg.FrontendURL, cfg.LoginURL, m)
	if err != nil {
		return nil, err
	}

	authHandler := handler.NewHandler(
		keywords,
		oauthBroker,
		resolver.New(infra.Sessions),
		infra.Sessions,
		m,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	authHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router.Group("/api"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router, nil
}

// withCORS allows the configured frontends to call the API with credentials.
func withCORS(cfg config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)
}
