package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/ai"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/config"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/database"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/handler"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/middleware"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/router"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/service"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/session"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Durable backend: absence is not fatal, the store serves from
	// memory and the health endpoint reports the degradation.
	var durable store.Store
	if cfg.DatabaseConfigured() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logger.Warn().Err(err).Msg("database unreachable, using in-memory storage")
		} else {
			durable = store.NewSQL(db)
		}
	} else {
		logger.Warn().Msg("database not configured, using in-memory storage")
	}
	st := store.NewFallback(durable, logger)

	// Sessions: Redis when reachable, in-process otherwise.
	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedis(rdb)
	} else {
		logger.Warn().Msg("redis unreachable, using in-memory sessions")
		sessions = session.NewMemory()
	}

	// Analyzer: selected once here, never inline in handlers.
	var analyzer ai.ClinicalTextAnalyzer
	if cfg.GeminiAPIKey != "" {
		analyzer = ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AnalyzerTimeout, logger)
	} else {
		logger.Warn().Msg("no language model API key, using offline analyzer")
		analyzer = ai.NewMock()
	}

	events := service.NewPublisher(logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(logger))

	router.Register(e, router.Deps{
		Health: &handler.HealthHandler{
			DurableStore:  durable != nil,
			RedisSessions: rdb != nil,
			LiveAnalyzer:  cfg.GeminiAPIKey != "",
		},
		Auth:         handler.NewAuthHandler(cfg, st, sessions, logger),
		Patients:     handler.NewPatientHandler(st, analyzer, events, logger),
		Interactions: handler.NewInteractionHandler(st, analyzer, events, logger),
		Sessions:     sessions,
		RateLimiter:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
