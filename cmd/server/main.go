package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	httpadapter "github.com/equilix/equilix/internal/adapter/http"
	"github.com/equilix/equilix/internal/adapter/persistence"
	"github.com/equilix/equilix/internal/adapter/proposal"
	"github.com/equilix/equilix/internal/compliance"
	"github.com/equilix/equilix/internal/config"
	"github.com/equilix/equilix/internal/ledger"
	"github.com/equilix/equilix/internal/ports"
	"github.com/equilix/equilix/internal/usecase"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"provider":    cfg.Proposal.Provider,
	}).Info("starting equilix")

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}
	logger.Info("database connection established")

	// Repositories and ledger storage
	projectRepo := persistence.NewPostgresProjectRepository(db)
	requirementRepo := persistence.NewPostgresRequirementRepository(db)
	testCaseRepo := persistence.NewPostgresTestCaseRepository(db)
	ledgerStore := persistence.NewPostgresLedgerStore(db)
	auditLedger := ledger.New(ledgerStore)

	// Proposal source, optionally cached in Redis
	var source ports.ProposalSource = proposal.New(cfg.ToProposalConfig())
	if cfg.Proposal.EnableCache {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable, proposal cache disabled")
		} else {
			ttl := time.Duration(cfg.Proposal.CacheTTLMin) * time.Minute
			source = proposal.NewCachedSource(source, redisClient, ttl, logger)
			logger.WithField("ttl", ttl.String()).Info("proposal cache enabled")
		}
	}

	engine := compliance.NewEngine()

	// Use cases
	projectUseCase := usecase.NewProjectUseCase(projectRepo, requirementRepo, auditLedger, logger)
	generationUseCase := usecase.NewGenerationUseCase(requirementRepo, testCaseRepo, source, engine, auditLedger, logger)
	auditUseCase := usecase.NewAuditUseCase(auditLedger)

	// Handlers
	projectHandler := httpadapter.NewProjectHandler(projectUseCase)
	testHandler := httpadapter.NewTestHandler(generationUseCase)
	auditHandler := httpadapter.NewAuditHandler(auditUseCase)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, projectHandler, testHandler, auditHandler, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
	logger.Info("server exited")
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
