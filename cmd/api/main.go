package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"crm-dashboard-service/internal/app"
	"crm-dashboard-service/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	srv, err := app.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[MAIN] startup failed: %v", err)
	}

	// Run server in a separate goroutine so we can listen for shutdown signals
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("[MAIN] server failed: %v", err)
			exitCode = 1
		}
	case <-quit:
		log.Println("[MAIN] shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[MAIN] shutdown: %v", err)
		exitCode = 1
	}
	log.Println("[MAIN] server stopped")
	os.Exit(exitCode)
}
