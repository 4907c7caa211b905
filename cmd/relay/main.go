package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/config"
	"github.com/tracechain/supplychain-service/internal/schema"
	"github.com/tracechain/supplychain-service/pkg/broker"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"

	eventRepoPkg "github.com/tracechain/supplychain-service/internal/event/repository"
	relayPkg "github.com/tracechain/supplychain-service/internal/event/relay"
	roleRepoPkg "github.com/tracechain/supplychain-service/internal/role/repository"
	roleUCPkg "github.com/tracechain/supplychain-service/internal/role/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open Database
	db, err := sqlite.Open(&sqlite.Config{Path: cfg.Sqlite.Path})
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer db.Close()
	appLogger.Info("Connected to SQLite database", zap.String("path", cfg.Sqlite.Path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := schema.Apply(ctx, db); err != nil {
		appLogger.Fatal("could not apply schema", zap.Error(err))
	}

	// 4. Bootstrap the admin role
	roleUC := roleUCPkg.NewRoleUseCase(db, roleRepoPkg.NewSqliteRepository(), appLogger)
	if err := roleUC.Bootstrap(ctx, cfg.Admin.Principal); err != nil {
		appLogger.Fatal("could not bootstrap admin role", zap.Error(err))
	}
	appLogger.Info("Admin role bootstrapped", zap.String("principal", cfg.Admin.Principal))

	// 5. Initialize Kafka Producer and start the relay
	if !cfg.Kafka.Enabled {
		appLogger.Fatal("relay requires KAFKA_ENABLED=true")
	}
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()
	appLogger.Info("Connected to Kafka Producer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)

	eventRelay := relayPkg.New(db, eventRepoPkg.NewSqliteRepository(), producer, appLogger)
	go eventRelay.Start(ctx)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down relay...")
	cancel()
	appLogger.Info("Relay stopped")
}
