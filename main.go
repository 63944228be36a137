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

	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/api/handlers"
	"github.com/linesmerrill/medication-reminder-api/config"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		zap.S().Errorw("medication-reminder-api stopped", "error", err)
		_ = zap.S().Sync()
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer zap.S().Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{Config: *conf}
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := a.Initialize(initCtx); err != nil { //initialize database and router
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("medication-reminder-api is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		zap.S().Info("shutting down medication-reminder-api")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	err = srv.Shutdown(shutdownCtx)
	a.Close(shutdownCtx)
	return err
}
