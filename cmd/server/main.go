package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/httpserver"
	"messenger/internal/service"
	"messenger/internal/store/cassandra"
	"messenger/internal/store/sqlite"
	"messenger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	var (
		msgRepo  domain.MessageRepository
		convRepo domain.ConversationRepository
	)
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			zlog.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer db.Close()
		if err := sqlite.Migrate(db); err != nil {
			zlog.Fatal("failed to migrate sqlite", zap.Error(err))
		}
		msgRepo = sqlite.NewMessageRepo(db)
		convRepo = sqlite.NewConversationRepo(db)
	case config.BackendCassandra:
		session, err := cassandra.Open(cassandra.Config{
			Hosts:       cfg.CassandraHosts,
			Port:        cfg.CassandraPort,
			Keyspace:    cfg.CassandraKeyspace,
			Consistency: cfg.CassandraConsistency,
			Timeout:     cfg.CassandraTimeout,
		})
		if err != nil {
			zlog.Fatal("failed to connect to cassandra", zap.Error(err))
		}
		defer session.Close()
		msgRepo = cassandra.NewMessageRepo(session)
		convRepo = cassandra.NewConversationRepo(session)
	}

	msgSvc := service.NewMessageService(msgRepo, convRepo, zlog,
		cfg.MaxContentLength, cfg.DefaultPageSize, cfg.MaxPageSize)
	convSvc := service.NewConversationService(convRepo, msgRepo,
		cfg.DefaultPageSize, cfg.MaxPageSize)

	router := httpserver.NewRouter(cfg, msgSvc, convSvc)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("starting messenger server",
			zap.String("addr", cfg.HTTPAddr()),
			zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
