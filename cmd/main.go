package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KesienaSelahor/Forex-Prediction-App/api"
	"github.com/KesienaSelahor/Forex-Prediction-App/config"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/advisory"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/cache"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/market"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/metrics"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/news"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/resolver"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/scheduler"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/session"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/strength"
	"github.com/KesienaSelahor/Forex-Prediction-App/internal/terminal"
)

func main() {
	// ── 1. Config
	cfg := config.Load()

	// ── 2. Logger setup
	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("config loaded")

	// ── 3. Root context setup
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 4. Metrics
	rec := metrics.New(prometheus.DefaultRegisterer)

	// ── 5. Upstream adapters
	yahoo := market.NewYahooAdapter(cfg.QuoteBaseURL, cfg.QuoteTimeout,
		market.WithRetries(cfg.QuoteRetries, 200*time.Millisecond))

	tickers := append(strength.RequiredTickers(), strength.DisplayPairs...)
	cycleTimeout := cfg.QuoteTimeout*time.Duration(cfg.QuoteRetries+1) + time.Second
	quotes := market.NewFetcher(yahoo, tickers, cycleTimeout)
	quotes.OnResult(func(source string, ok bool, elapsed time.Duration) {
		rec.RecordUpstream(source, ok, elapsed.Seconds())
	})

	calendar := news.NewCalendarScraper(cfg.NewsURL, cfg.NewsTimeout)
	advisor := advisory.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.AdvisoryTimeout)

	log.Info().Int("tickers", len(tickers)).Str("source", yahoo.Name()).Msg("upstream adapters initialized")

	// ── 6. Snapshot cache
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory cache")
		} else {
			store = rdb
			defer rdb.Close()
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache connected")
		}
	}

	// ── 7. Signal engine
	policy, err := resolver.ParseCrossPolicy(cfg.CrossPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid cross policy")
	}
	rcfg := resolver.DefaultConfig()
	rcfg.CrossPolicy = policy
	rcfg.MinSpread = cfg.MinSpread
	rcfg.RSIOverbought = cfg.RSIOverbought
	rcfg.RSIOversold = cfg.RSIOversold

	loc, err := time.LoadLocation(cfg.DisplayTZ)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.DisplayTZ).Msg("unknown display timezone, using UTC")
		loc = time.UTC
	}
	classifier, err := session.NewClassifier(session.DefaultWindows,
		session.Band{Start: cfg.OverlapStart, End: cfg.OverlapEnd}, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid session configuration")
	}

	// ── 8. Terminal service + Scheduler
	svc := terminal.NewService(terminal.Deps{
		Quotes:   quotes,
		News:     calendar,
		Advisor:  advisor,
		Resolver: resolver.New(rcfg),
		Sessions: classifier,
		Store:    store,
		Metrics:  rec,
	}, terminal.Options{
		SnapshotTTL:   cfg.SnapshotTTL,
		FallbackTTL:   cfg.FallbackTTL,
		NewsTimeout:   cfg.NewsTimeout,
		DefaultAPIKey: cfg.GeminiKey,
	})

	sched := scheduler.NewScheduler(svc, cfg.RefreshInterval, cycleTimeout+cfg.NewsTimeout)
	sched.Start(ctx)
	defer sched.Stop()

	// ── 9. Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FX Terminal",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())

	// ── 10. Routes
	api.SetupRoutes(app, svc, prometheus.DefaultGatherer)

	// ── 11. Graceful shutdown listener
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	// ── 12. Start server (blocking)
	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
