/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the revenue tracker server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Load the period registry (built-in, or JSON file via -registry)
  3. Initialize the SQLite store
  4. Wire the API handler and router
  5. Start the server with graceful shutdown

CONFIGURATION:
  Flags override environment variables:
    -port      / PORT          HTTP server port (default 8080)
    -db        / DB_PATH       SQLite path (default revenue.db, ":memory:" ok)
    -registry  / REGISTRY_PATH optional period registry JSON file

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/revenue-engine/api"
	"github.com/warp/revenue-engine/engine"
	"github.com/warp/revenue-engine/factory"
	"github.com/warp/revenue-engine/store/sqlite"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	port := flag.Int("port", envOrInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envOr("DB_PATH", "revenue.db"), "SQLite database path")
	registryPath := flag.String("registry", envOr("REGISTRY_PATH", ""), "period registry JSON file (empty = built-in)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	registry := engine.DefaultRegistry()
	if *registryPath != "" {
		data, err := os.ReadFile(*registryPath)
		if err != nil {
			log.WithError(err).Fatal("read registry file")
		}
		registry, err = factory.ParseRegistry(data)
		if err != nil {
			log.WithError(err).Fatal("parse registry file")
		}
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, registry, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}
	log.Info("server stopped")
}
