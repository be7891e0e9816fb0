// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "video-normalizer-service/docs"
	"video-normalizer-service/internal/config"
	"video-normalizer-service/internal/ffmpeg"
	"video-normalizer-service/internal/metrics"
	"video-normalizer-service/internal/pipeline"
	"video-normalizer-service/internal/supabase"
	"video-normalizer-service/internal/transfer"
	httptransport "video-normalizer-service/internal/transport/http"
)

// @title video-normalizer-service
// @version 1.0
// @description Single-job video normalization worker: download, remux/transcode, upload.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env удобен локально; в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg := config.FromEnv()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.WorkDir).Msg("create work dir")
	}

	// DI
	m := metrics.New(prometheus.DefaultRegisterer)

	transferClient := transfer.NewClient(&http.Client{}, 1024)

	transcoder := &ffmpeg.Runner{
		Bin: cfg.FFmpegPath,
		Profile: ffmpeg.Profile{
			Preset:       cfg.Preset,
			CRF:          cfg.VideoCRF,
			AudioBitrate: cfg.AudioBitrate,
		},
		CaptureLimit: cfg.CaptureLimit,
	}

	var reporter pipeline.StatusReporter
	if cfg.SupabaseStatusTable != "" {
		reporter = &supabase.Reporter{
			Client: supabase.NewClient(&http.Client{Timeout: 60 * time.Second}),
			Table:  cfg.SupabaseStatusTable,
		}
	}

	runner := pipeline.New(cfg, transferClient, transcoder, transferClient, reporter, logger, m)

	h := httptransport.NewHandler(runner, cfg.MaxConcurrentJobs)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httptransport.Routes(h, logger, cfg.WorkerSecret),
	}

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("policy", string(cfg.Policy)).
			Str("work_dir", cfg.WorkDir).
			Int("max_concurrent_jobs", cfg.MaxConcurrentJobs).
			Msg("worker started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	// Дождаться текущих job'ов: таймаут щедрый, стадии могут быть долгими.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}

	logger.Info().Msg("worker stopped")
}
