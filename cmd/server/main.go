package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockedby/resumekit/internal/config"
	"github.com/blockedby/resumekit/internal/logger"
	"github.com/blockedby/resumekit/internal/nats"
	"github.com/blockedby/resumekit/internal/ratelimit"
	"github.com/blockedby/resumekit/internal/render"
	"github.com/blockedby/resumekit/internal/web"
	"github.com/blockedby/resumekit/internal/worker"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Setup logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Int("port", cfg.HTTPPort).Msg("starting resume render service")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Render engine
	opts, fonts, err := render.DirOptions(cfg.AssetsDir, cfg.FontsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load render resources")
	}
	engine := render.New(append(opts, render.WithLogger(log.Component("render")))...)
	log.Info().
		Str("assets_dir", cfg.AssetsDir).
		Int("extra_fonts", fonts).
		Msg("render engine ready")

	limiter := ratelimit.New(cfg.RenderRPS, cfg.RenderBurst)

	hub := web.NewHub()
	go hub.Run()
	defer hub.Stop()

	// 5. Optional queue worker
	var natsClient *nats.Client
	if cfg.NatsURL != "" {
		natsClient, err = nats.New(ctx, cfg.NatsURL, "resumekit")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsClient.Close()
		log.Info().Msg("connected to nats")

		if err := natsClient.EnsureStream(ctx, worker.Stream, []string{worker.SubjectRender, worker.SubjectRendered}); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure stream")
		}

		consumer := worker.NewConsumer(natsClient, engine, limiter, log.Component("worker"))
		consumer.SetNotifier(hub)
		if err := consumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start consumer")
		}
		log.Info().Msg("render consumer started")
	} else {
		log.Info().Msg("NATS_URL not set, queue worker disabled")
	}

	// 6. HTTP server
	handler := web.NewHandler(engine, hub, cfg.ThumbnailWidth, log.Component("http"))
	handler.SetStatus(func() map[string]string {
		switch {
		case natsClient == nil:
			return map[string]string{"nats": "disabled"}
		case natsClient.IsConnected():
			return map[string]string{"nats": "connected"}
		default:
			return map[string]string{"nats": "disconnected"}
		}
	})

	srv := web.NewServer(&web.Config{
		Port:           cfg.HTTPPort,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RenderTimeout:  worker.RenderTimeout,
	}, handler, limiter, hub, log.Component("http"))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("http server started")

	// Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if natsClient != nil {
		if err := natsClient.Drain(); err != nil {
			log.Error().Err(err).Msg("nats drain")
		}
	}
	log.Info().Msg("shutdown complete")
}
