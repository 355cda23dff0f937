// devserver is an in-memory stub of the video API consumed by vidcli. It
// implements the same wire contract (list, detail, delete, multipart
// upload, manifest serving) with simulated processing, so the client can be
// exercised without the real backend. Nothing is persisted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/vidfeed/internal/config"
	"alcyxob/vidfeed/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		os.Stderr.WriteString("devserver: load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	store := newMemoryStore(cfg.Server.PublicURL, cfg.Server.ProcessingDelay)
	handler := newVideoHandler(store, cfg.Upload.MaxSizeBytes, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	handler.register(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("devserver listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}
