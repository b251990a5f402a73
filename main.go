package main

import (
	"fmt"
	"log"

	"github.com/dkzinn98/gestor-financeiro/internal/config"
	"github.com/dkzinn98/gestor-financeiro/internal/database"
	"github.com/dkzinn98/gestor-financeiro/internal/logger"
	"github.com/dkzinn98/gestor-financeiro/internal/router"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Get().Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Get().Fatal("migrate database", zap.Error(err))
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Get().Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Get().Fatal("run server", zap.Error(err))
	}
}
