package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/config"
	"github.com/DoyleJ11/pokedraft-backend/internal/httpapi"
	"github.com/DoyleJ11/pokedraft-backend/internal/hub"
	"github.com/DoyleJ11/pokedraft-backend/internal/logging"
	"github.com/DoyleJ11/pokedraft-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Server.LogLevel, cfg.Development())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drafts, err := store.Open(ctx, store.Options{
		Driver:      cfg.Database.Driver,
		DatabaseURL: cfg.Database.URL,
		MongoURI:    cfg.Database.MongoURI,
		MongoDB:     cfg.Database.MongoDB,
	})
	if err != nil {
		return err
	}

	client := catalog.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.RPS)
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	cat, err := client.Load(loadCtx, cfg.PokeAPI.SpriteBase)
	cancel()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("pokemon", cat.Len()))

	h := hub.NewHub(ctx, logger.Named("hub"))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:         h,
			Catalog:     cat,
			Details:     client,
			Store:       drafts,
			Log:         logger.Named("http"),
			CORSOrigins: cfg.Server.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		h.Shutdown()
		return errors.Join(err, drafts.Close(shutdownCtx))
	})
	return g.Wait()
}
