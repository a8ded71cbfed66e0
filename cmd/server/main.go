package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyydra/huddle/internal/adapter/driven/events/nop"
	"github.com/Wyydra/huddle/internal/adapter/driven/events/redis"
	"github.com/Wyydra/huddle/internal/adapter/driven/gateway/ws"
	handler "github.com/Wyydra/huddle/internal/adapter/driving/http"
	"github.com/Wyydra/huddle/internal/config"
	"github.com/Wyydra/huddle/internal/core/port"
	"github.com/Wyydra/huddle/internal/core/service"
	"github.com/Wyydra/huddle/internal/logger"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	l := logger.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, err := newPublisher(ctx, cfg.Events)
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.Events.Driver).Msg("Failed to create event publisher")
	}
	defer publisher.Close()

	registry := service.NewRegistry()
	hub := ws.NewHub()
	signaling := service.NewSignalingService(registry, hub, publisher)
	h := handler.NewHandler(signaling, hub, cfg.WebSocket)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Hijacked websocket connections are not tracked by Shutdown.
		hub.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("Server exited with error")
		return
	}
	l.Info().Msg("Server exited")
}

func newPublisher(ctx context.Context, cfg config.EventsConfig) (port.EventPublisher, error) {
	switch cfg.Driver {
	case "redis":
		return redis.NewPublisher(ctx, cfg.Redis)
	default:
		return nop.NewPublisher(), nil
	}
}
