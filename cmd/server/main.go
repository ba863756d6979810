// Command server runs the inbound SMS webhook service.
//
// @title       SMS Backend API
// @version     1.0
// @description Inbound SMS webhook with dedup, opt-out compliance, rate limiting and answer generation.
// @BasePath    /
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/config"
	httpapi "github.com/tbourn/go-sms-backend/internal/http"
	"github.com/tbourn/go-sms-backend/internal/observability"
	"github.com/tbourn/go-sms-backend/internal/repo"
	"github.com/tbourn/go-sms-backend/internal/services"
	"github.com/tbourn/go-sms-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	// best-effort: real environment wins, a missing .env is fine
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate store failed")
	}

	sender, closeSender := newSender(cfg.Outbound)
	defer closeSender.Close()

	pipeline := newPipeline(cfg, db, newAnswerer(cfg), sender)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, pipeline, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Bool("mock_send", cfg.Outbound.UseMock).
			Bool("fake_ai", cfg.Answer.Fake).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}
	if err := shutdownOTel(doneCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("goodbye")
}

// newAnswerer picks the live generator unless fake mode is on.
func newAnswerer(cfg config.Config) services.AnswerGenerator {
	if cfg.Answer.Fake {
		return services.MockAnswerer{}
	}
	return services.NewOpenAIAnswerer(services.OpenAIOptions{
		APIKey:  cfg.Answer.APIKey,
		Model:   cfg.Answer.Model,
		BaseURL: cfg.Answer.BaseURL,
		Brand:   cfg.Copy.Brand,
	})
}

// newSender picks the outbox file in mock mode and the gateway client
// otherwise. The closer releases the outbox file.
func newSender(cfg config.OutboundConfig) (services.OutboundSender, io.Closer) {
	if cfg.UseMock {
		return services.NewMockSender(cfg.OutboxPath, cfg.SenderID)
	}
	return services.NewHTTPSender(services.HTTPSenderOptions{
		BaseURL: cfg.APIBase,
		APIKey:  cfg.APIKey,
		From:    cfg.SenderID,
		RPS:     cfg.SendRPS,
		Burst:   cfg.SendBurst,
	}), nopCloser{}
}

func newPipeline(cfg config.Config, db *gorm.DB, answerer services.AnswerGenerator, sender services.OutboundSender) *services.Pipeline {
	copyText := services.Copy{
		Brand:        cfg.Copy.Brand,
		PricingCopy:  cfg.Copy.PricingCopy,
		SupportPhone: cfg.Copy.SupportPhone,
		SupportEmail: cfg.Copy.SupportEmail,
	}
	return &services.Pipeline{
		DB:       db,
		Limiter:  services.NewRateLimiter(cfg.Policy.RatePerHour, cfg.Policy.RatePerDay),
		Copy:     copyText,
		Answerer: answerer,
		Sender:   sender,
		DedupTTL: cfg.Policy.DedupTTL,
		Timeout:  cfg.Policy.CollaboratorTimeout,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
