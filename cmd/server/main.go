/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the MUHCS claim tracker server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment, flags override)
  2. Initialize SQLite store
  3. Seed role accounts and the default rate card
  4. Start the session janitor
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the session janitor and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/tracker.db"

  # Run with in-memory database and demo data
  SEED_DEMO_DATA=true ./server -db=":memory:"

  # Run on a different port
  ./server -port=3000

SEE ALSO:
  - config/config.go: Environment configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zohmingaRalte/muhcs-billtrack/api"
	"github.com/zohmingaRalte/muhcs-billtrack/config"
	"github.com/zohmingaRalte/muhcs-billtrack/logging"
	"github.com/zohmingaRalte/muhcs-billtrack/store/sqlite"
)

func main() {
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := logging.Setup(cfg.LogFormat)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store)
	handler.Log = log
	handler.SessionTTL = cfg.SessionTTL

	ctx := context.Background()
	if err := handler.SeedUsers(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed user accounts")
	}
	if err := handler.SeedRates(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed rate card")
	}
	if cfg.SeedDemoData {
		if err := handler.SeedDemo(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to seed demo data")
		}
	}

	janitor := api.NewSessionJanitor(store, log)
	janitor.Start()
	defer janitor.Stop()

	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
