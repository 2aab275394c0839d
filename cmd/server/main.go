package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oriolripoll/typeracer-backend/internal/config"
	"github.com/oriolripoll/typeracer-backend/internal/events"
	"github.com/oriolripoll/typeracer-backend/internal/httpapi"
	"github.com/oriolripoll/typeracer-backend/internal/hub"
	"github.com/oriolripoll/typeracer-backend/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	corpus := words.MustLoad(wordSource(cfg), logger)
	logger.Info("word corpus loaded", zap.Int("words", len(corpus)))

	var publisher events.Publisher = events.Nop{}
	if cfg.RedisHost != "" {
		publisher = events.NewRedisPublisher(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, logger)
	}

	h := hub.NewHub(ctx, logger, corpus, publisher, hub.Options{
		MaxStack:         cfg.MaxStack,
		IntervalMs:       cfg.IntervalMs,
		SuddenDeathLives: cfg.SuddenDeathLives,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, logger, cfg.AllowedOrigins),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.Shutdown{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func wordSource(cfg config.Config) words.Source {
	switch {
	case cfg.WordsDSN != "":
		return words.DBSource{DSN: cfg.WordsDSN}
	case cfg.WordsFile != "":
		return words.FileSource{Path: cfg.WordsFile}
	default:
		return nil
	}
}
