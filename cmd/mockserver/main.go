// Command mockserver runs the in-memory fake of the platform API, for local
// development against the SDK:
//
//	PLATFORM_BASE_URL=http://localhost:4010/v1 go run ./your-app
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaoyuanzhu-com/platform-go/apitest"
	"github.com/xiaoyuanzhu-com/platform-go/config"
	"github.com/xiaoyuanzhu-com/platform-go/log"
)

func main() {
	cfg := config.Get()

	var opts []apitest.Option
	if cfg.APIKey != "" {
		opts = append(opts, apitest.WithAPIKey(cfg.APIKey))
	}
	fake := apitest.New(opts...)

	srv := &http.Server{
		Addr:              cfg.MockAddr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.StdErrorLogger(), // Route Go's internal HTTP errors through zerolog
	}

	go func() {
		log.Info().
			Str("addr", cfg.MockAddr).
			Str("env", cfg.Env).
			Bool("auth", cfg.APIKey != "").
			Msg("mock server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
