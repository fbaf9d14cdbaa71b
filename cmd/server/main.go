package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-gateway/internal/app"
	"auth-gateway/internal/auth/keyword"
	"auth-gateway/internal/config"
	"auth-gateway/internal/logger"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool             `help:"Enable debug logging." env:"DEBUG"`
		Version kong.VersionFlag `help:"Print version and exit."`

		Serve       ServeCmd       `cmd:"" default:"1" help:"Start the gateway (default)."`
		HashKeyword HashKeywordCmd `cmd:"" help:"Print a bcrypt hash for SECRET_KEYWORD_HASH."`
	}
)

type ServeCmd struct {
	EnvFile         string        `help:"Optional dotenv file." default:".env" type:"path"`
	ShutdownTimeout time.Duration `help:"Graceful shutdown timeout." default:"10s"`
}

func (s *ServeCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(s.EnvFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	logger.Info("auth-gateway started", map[string]any{
		"port":    cfg.AppPort,
		"version": version,
		"backend": cfg.SessionBackend,
	})

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done(): // wait for Ctrl+C
	}

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("auth-gateway stopped cleanly", nil)
	return nil
}

type HashKeywordCmd struct {
	Keyword string `arg:"" help:"Keyword to hash."`
}

func (h *HashKeywordCmd) Run() error {
	hash, err := keyword.HashKeyword(h.Keyword)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("auth-gateway"),
		kong.Description("Keyword and GitHub OAuth login gateway."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Init(cli.Debug)

	err := cmd.Run()
	if err != nil {
		logger.Fatal("auth-gateway failed", map[string]any{
			"error": err.Error(),
		})
	}
}
