package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/talkative-se/powerbag-backend/internal/bootstrap"
	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/modules/handler"
	"github.com/talkative-se/powerbag-backend/internal/router"
)

func main() {
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	r := router.NewRouter(router.RouterDeps{
		Config:            cfg,
		Log:               logger,
		AssetHandler:      do.MustInvoke[*handler.AssetHandler](inj),
		StorylineHandler:  do.MustInvoke[*handler.StorylineHandler](inj),
		CollectionHandler: do.MustInvoke[*handler.CollectionHandler](inj),
		UserHandler:       do.MustInvoke[*handler.UserHandler](inj),
		InfoHandler:       do.MustInvoke[*handler.InfoHandler](inj),
		EventHandler:      do.MustInvoke[*handler.EventHandler](inj),
		SettingHandler:    do.MustInvoke[*handler.SettingHandler](inj),
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}

	if err := inj.Shutdown(); err != nil {
		logger.Error("close container", zap.Error(err))
	}
}
