package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gestionobras/backend/internal/config"
	"github.com/gestionobras/backend/internal/logger"
	"github.com/gestionobras/backend/internal/server"
	"github.com/gestionobras/backend/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("configure logging")
	}

	slot, err := store.OpenSlot(cfg.SlotPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SlotPath).Msg("open snapshot slot")
	}
	st := store.New(slot, logger.WithComponent("store"))
	if err := st.Open(); err != nil {
		log.Fatal().Err(err).Msg("hydrate snapshot")
	}

	handler := server.New(st, logger.WithComponent("http"))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
