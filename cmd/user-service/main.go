package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/app"
	"github.com/streamnest/user-service/internal/config"
	"github.com/streamnest/user-service/internal/utils/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	application, err := app.NewApp(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		zapLogger.Fatal("Application terminated with error", zap.Error(err))
	}
}
