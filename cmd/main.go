package main

import (
	"civicconnect/backend/internal/api/handler"
	"civicconnect/backend/internal/complaint"
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/events"
	"civicconnect/backend/internal/hub"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/localization"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/notify"
	"civicconnect/backend/internal/session"
	"civicconnect/backend/internal/storage"
	"civicconnect/backend/internal/telegram"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.WithComponent("main")
	log.Info("starting Civic Connect backend", "store", cfg.Store.Backend, "ledgers", cfg.Ledger.Keys)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store and ledgers
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	writer := ledger.NewWriter(store, cfg.Ledger.Keys...)

	// 2. Ledger events: shared through redis when the store is redis, in-process otherwise.
	var bus events.Bus = events.NewLocalBus()
	if rs, ok := store.(*storage.RedisStore); ok {
		bus = events.NewRedisBus(rs.Client(), cfg.Redis.KeyPrefix+config.EventsChannel)
	}
	dashboards := hub.NewManager(bus)
	go func() {
		if err := dashboards.Run(ctx); err != nil {
			log.Error("hub stopped", "error", err)
		}
	}()

	// 3. Notifications
	l := localization.Default()
	notifiers := notify.Multi{notify.LogNotifier{Log: logger.WithComponent("notify")}}
	if cfg.Telegram.Token != "" {
		tg, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, l)
		if err != nil {
			log.Warn("telegram notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	// 4. Services
	complaints := complaint.NewService(writer, bus, notifiers)
	complaints.Delay = cfg.Server.SubmitDelay
	if err := complaints.SeedIDs(ctx); err != nil {
		return err
	}

	admin, err := session.NewStaticAuthenticator(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, session.CitizenAuthenticator{}, admin)
	sessions.Delay = cfg.Server.LoginDelay
	tokens := session.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 5. HTTP
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger.WithComponent("http")))
	handler.NewHandler(sessions, tokens, complaints, dashboards, l).Register(r)

	server := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
