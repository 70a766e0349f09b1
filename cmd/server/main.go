package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Devarsh-42/InsureBuddy/internal/config"
	"github.com/Devarsh-42/InsureBuddy/internal/database"
	"github.com/Devarsh-42/InsureBuddy/internal/handlers"
	"github.com/Devarsh-42/InsureBuddy/internal/logging"
	"github.com/Devarsh-42/InsureBuddy/internal/middleware"
	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/repository"
	"github.com/Devarsh-42/InsureBuddy/internal/router"
	"github.com/Devarsh-42/InsureBuddy/internal/services"
	"github.com/Devarsh-42/InsureBuddy/internal/websocket"
	"github.com/Devarsh-42/InsureBuddy/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting InsurBuddy backend", zap.String("env", cfg.Env))

	// ──── Step 2: Canned Responses ────
	responder, err := services.NewDefaultResponder()
	if err != nil {
		return fmt.Errorf("response catalog: %w", err)
	}

	// ──── Step 3: Session Stores ────
	analyzerSessions := repository.NewSessionStore[*models.AnalyzerSession]()
	chatSessions := repository.NewSessionStore[*services.ChatSession]()

	// ──── Step 4: Reply Scheduler ────
	scheduler := worker.NewScheduler(logger.Named("replies"))

	// ──── Step 5: Update Fan-out (Redis optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClients.Close()
		logger.Info("redis connected")
	}

	var hub *websocket.Hub
	var publisher services.Publisher
	if redisClients != nil {
		hub = websocket.NewHub(redisClients.PubSub, chatSessions, logger.Named("ws"))
		publisher = database.NewRedisPublisher(redisClients.Publish)
	} else {
		hub = websocket.NewHub(nil, chatSessions, logger.Named("ws"))
		publisher = hub
	}

	chatSvc := services.NewChatService(chatSessions, responder, scheduler, publisher, cfg.ReplyDelay, logger.Named("chat"))
	analyzerSvc := services.NewAnalyzerService(analyzerSessions, logger.Named("analyzer"))

	// ──── Step 6: Session Reaper ────
	reaper := services.NewSessionReaper(map[string]services.IdleEvicter{
		"analyzer": analyzerSessions,
		"chat":     chatSessions,
	}, cfg.SessionIdleTTL, logger.Named("reaper"))
	reaper.Start()
	defer reaper.Stop()

	// ──── Step 7: HTTP Server ────
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
	defer chatLimiter.Stop()

	r := router.New(
		handlers.NewCoverageHandler(),
		handlers.NewAnalyzerHandler(analyzerSvc),
		handlers.NewChatHandler(chatSvc),
		chatLimiter,
		hub.HandleWebSocket,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", server.Addr),
			zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)

		// Pending replies still land; their websocket pushes go out before
		// the hub closes.
		scheduler.Stop()
		hub.Close()
		return err
	})

	return g.Wait()
}
