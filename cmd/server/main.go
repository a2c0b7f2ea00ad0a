package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mroshb/value_matcher/internal/api"
	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/database"
	"github.com/mroshb/value_matcher/internal/embedding"
	"github.com/mroshb/value_matcher/internal/handlers"
	"github.com/mroshb/value_matcher/internal/matching"
	"github.com/mroshb/value_matcher/internal/middleware"
	"github.com/mroshb/value_matcher/internal/repositories"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/internal/values"
	"github.com/mroshb/value_matcher/pkg/logger"
	"github.com/mroshb/value_matcher/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv == "development")
	defer logger.Sync()

	logger.Info("Starting value matcher...", "env", cfg.AppEnv)

	if err := cfg.ValidateProductionSecurity(); err != nil {
		logger.Fatal("Production security validation failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	communityRepo := repositories.NewCommunityRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	actionRepo := repositories.NewActionRepository(db)

	// Matching
	var semantic *matching.SemanticScorer
	var embedder *embedding.ResilientEmbedder
	if cfg.UsesSemantic() {
		if cfg.EmbeddingConfigured() {
			embedder, err = embedding.New(ctx, cfg)
			if err != nil {
				logger.Fatal("Failed to initialize embedding provider", err)
			}
			semantic = matching.NewSemanticScorer(embedder, cfg.Thresholds, matching.SemanticConfig{
				Timeout:       cfg.GetEmbedTimeout(),
				Concurrency:   cfg.EmbedConcurrency,
				MaxCandidates: cfg.MaxSemanticCandidates,
			})
			logger.Info("Semantic matching enabled", "provider", cfg.EmbeddingProvider)
		} else {
			logger.Warn("Semantic matching selected but no embedding credentials are set; semantic rankings will be empty",
				"provider", cfg.EmbeddingProvider)
		}
	}
	ranker := matching.NewRanker(semantic, cfg.Thresholds)

	// Services
	builder := values.NewBuilder(values.DefaultLexicon(), values.DefaultBoard(), cfg.Thresholds)
	profileSvc := services.NewProfileService(userRepo, actionRepo, builder)
	communitySvc := services.NewCommunityService(communityRepo, actionRepo)
	eventSvc := services.NewEventService(eventRepo, actionRepo)
	matchSvc := services.NewMatchService(userRepo, communityRepo, eventRepo, actionRepo, ranker, services.MatchStrategies{
		Community: cfg.CommunityStrategy,
		Event:     cfg.EventStrategy,
	})

	// IP budget covers several users behind one address.
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerUser*5, cfg.GetRateLimitWindow())
	defer apiLimiter.Stop()

	deps := api.Deps{
		JWTSecret:           cfg.JWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RequestTimeout:      cfg.GetRequestTimeout(),
		EmbeddingConfigured: cfg.EmbeddingConfigured(),
		EmbeddingProvider:   cfg.EmbeddingProvider,
		Profiles:            profileSvc,
		Communities:         communitySvc,
		Events:              eventSvc,
		Matches:             matchSvc,
		Limiter:             apiLimiter,
		Activity:            userRepo,
		DB:                  database.NewHealth(db),
	}
	if embedder != nil {
		deps.Embeddings = embedder
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Telegram front end is optional.
	var bot *telegram.Bot
	if cfg.BotToken != "" {
		botLimiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, 0, cfg.GetRateLimitWindow())
		defer botLimiter.Stop()

		mgr := handlers.NewHandlerManager(cfg, userRepo, profileSvc, communitySvc, eventSvc, matchSvc)
		bot, err = telegram.InitBot(cfg, mgr, botLimiter)
		if err != nil {
			logger.Fatal("Failed to initialize bot", err)
		}
		logger.Info("Bot started successfully")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutting down gracefully...")
		if bot != nil {
			bot.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return
	}
	logger.Info("Server stopped")
}
