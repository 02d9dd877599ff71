package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/api"
	"github.com/yourname/northstar/internal/auth"
	"github.com/yourname/northstar/internal/config"
	"github.com/yourname/northstar/internal/storage"
)

func main() {
	cfg := config.Load()

	var zl *zap.Logger
	var err error
	if cfg.Env == "development" {
		zl, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		zl, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer zl.Sync()
	logger := internal.NewZapLogger(zl.Sugar())

	store, err := storage.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	app := api.NewApp(logger, store)
	r := api.NewRouter(app, newAuthProvider(cfg, store, logger))

	logger.Infof("server listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}

func newAuthProvider(cfg *config.Config, store storage.Store, logger internal.Logger) auth.Provider {
	switch cfg.AuthMode {
	case "store":
		return auth.NewStoreProvider(store, logger)
	case "remote":
		return auth.NewRemoteProvider(cfg.AuthServiceURL, logger)
	default:
		return auth.NewLocalProvider(cfg.AuthToken, logger)
	}
}
