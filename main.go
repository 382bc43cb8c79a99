package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordier/internal/config"
	"github.com/robalobadob/wordier/internal/dictionary"
	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/httpserver"
	"github.com/robalobadob/wordier/internal/store"
	"github.com/robalobadob/wordier/internal/words"
)

const GracefulShutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Logger = cfg.Logger()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config) error {
	dict, err := dictionary.Open(cfg.DictionaryFile)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	targets, err := words.Load(cfg.TargetsFile, cfg.MinWordLength)
	if err != nil {
		return fmt.Errorf("load target words: %w", err)
	}
	log.Info().Int("words", dict.Len()).Int("targets", targets.Len()).Msg("word lists loaded")

	var st store.Store
	if cfg.StoreDSN != "" {
		sq, err := store.OpenSQLite(cfg.StoreDSN)
		if err != nil {
			return fmt.Errorf("open round store %s: %w", cfg.StoreDSN, err)
		}
		defer func() {
			if err := sq.Close(); err != nil {
				log.Warn().Err(err).Msg("close round store")
			}
		}()
		st = sq
	} else {
		st = store.NewMemoryStore()
	}

	api, err := httpserver.New(st, dict, discovery.NewEngine(dict, cfg.DiscoveryCacheSize), targets, httpserver.Options{
		MinLength:      cfg.MinWordLength,
		RoundDuration:  cfg.RoundDuration,
		DailySalt:      cfg.DailySalt,
		TokenSecret:    cfg.RoundTokenSecret,
		TokenTTL:       cfg.RoundTokenTTL,
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Production:     cfg.Production,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go api.Sweep(ctx, cfg.SweepEvery, cfg.RoundIdle)

	srv := &http.Server{Addr: cfg.Addr(), Handler: api.Handler()}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
		sctx, scancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
		scancel()
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", srv.Addr).Bool("sqlite", cfg.StoreDSN != "").Msg("starting wordier server")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-idleConnsClosed
	return nil
}
