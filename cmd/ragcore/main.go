package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/helio-cloud/ragcore/internal/config"
	dbRedis "github.com/helio-cloud/ragcore/internal/db/redis"
	"github.com/helio-cloud/ragcore/internal/domain"
	logpkg "github.com/helio-cloud/ragcore/internal/logger"
	"github.com/helio-cloud/ragcore/internal/metrics"
	documentrepo "github.com/helio-cloud/ragcore/internal/repository/document"
	chiTransport "github.com/helio-cloud/ragcore/internal/transport/chi"
	openaiLLM "github.com/helio-cloud/ragcore/internal/transport/openai"
	chatuc "github.com/helio-cloud/ragcore/internal/usecase/chat"
	documentuc "github.com/helio-cloud/ragcore/internal/usecase/document"
	healthuc "github.com/helio-cloud/ragcore/internal/usecase/health"
	retrievaluc "github.com/helio-cloud/ragcore/internal/usecase/retrieval"
	"github.com/helio-cloud/ragcore/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print build info and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragcore API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_model", cfg.LLM.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterLLMMetrics()

	docRepo := documentrepo.New(store).WithKeyPrefix(cfg.Storage.KeyPrefix)
	if err := docRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// Create use case services
	docSvc := documentuc.New(docRepo).
		WithPagination(cfg.Retrieval.DefaultPageSize, cfg.Retrieval.MaxPageSize)

	factory := retrievaluc.NewFactory(docRepo).
		WithWeights(weightsFromConfig(cfg.Retrieval.Weights)).
		WithLogger(logger)

	completer := openaiLLM.NewCompleter(&openaiLLM.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Provider:    cfg.LLM.Provider,
		Logger:      logger,
	})

	chatSvc := chatuc.New(completer, func(scope domain.TenantScope) chatuc.Retriever {
		return factory.Scoped(scope)
	}, cfg.Retrieval.DefaultLimit).WithLogger(logger)

	healthSvc := healthuc.New(store, completer)

	// Create chi server
	server := chiTransport.NewServer(docSvc, factory, chatSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// weightsFromConfig overlays configured weights on the engine defaults.
// Zero config values keep the default for that signal.
func weightsFromConfig(w config.WeightsConfig) retrievaluc.Weights {
	weights := retrievaluc.DefaultWeights()
	if w.TitleExactQuery > 0 {
		weights.TitleExactQuery = w.TitleExactQuery
	}
	if w.ContentExactQuery > 0 {
		weights.ContentExactQuery = w.ContentExactQuery
	}
	if w.TitleKeyword > 0 {
		weights.TitleKeyword = w.TitleKeyword
	}
	if w.ContentKeyword > 0 {
		weights.ContentKeyword = w.ContentKeyword
	}
	if w.TagKeyword > 0 {
		weights.TagKeyword = w.TagKeyword
	}
	if w.BrevityBonus > 0 {
		weights.BrevityBonus = w.BrevityBonus
	}
	if w.BrevityThreshold > 0 {
		weights.BrevityThreshold = w.BrevityThreshold
	}
	return weights
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
