package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greeter/internal/config"
	httpgateway "greeter/internal/delivery/http"
	"greeter/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.New("info", "json").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format).With("app", cfg.App.Name+"-gateway")

	grpcMgr := httpgateway.NewGRPCConnectionManager(cfg.HTTP.GRPCTarget, log)
	defer grpcMgr.Close()

	gateway := httpgateway.NewGateway(grpcMgr, cfg.HTTPAddr(), log)

	// Настраиваем маршруты
	if err := gateway.SetupRoutes(); err != nil {
		log.Error("failed to setup routes", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gateway.Run()
	}()

	select {
	case <-stop:
		log.Info("shutting down gateway")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gateway.Shutdown(ctx); err != nil {
			log.Error("gateway shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Error("failed to run gateway", "error", err)
			grpcMgr.Close()
			os.Exit(1)
		}
	}

	log.Info("gateway shutdown complete")
}
