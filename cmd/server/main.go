package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greeter/internal/config"
	grpchandler "greeter/internal/delivery/grpc"
	"greeter/internal/repository"
	"greeter/internal/service"
	"greeter/pkg/grpcserver"
	"greeter/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.New("info", "json").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format).With("app", cfg.App.Name, "env", cfg.App.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	journal, closeJournal, err := repository.OpenJournal(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to open call journal", "error", err)
		os.Exit(1)
	}
	defer closeJournal()

	// Создаем сервисный слой
	helloService := service.NewHelloService(journal, log)

	// Создаем обработчик gRPC
	handler := grpchandler.NewHandler(helloService, log)

	srv := grpcserver.NewServer(handler, grpcserver.Options{
		Addr:       cfg.GRPCAddr(),
		Reflection: cfg.GRPC.Reflection,
		Logger:     log,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-stop:
		log.Info("shutting down gRPC server")
		srv.GracefulStop()
	case err := <-errCh:
		if err != nil {
			log.Error("failed to serve", "error", err)
			closeJournal()
			os.Exit(1)
		}
	}
}
