/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Already Dead operations console server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load .env / environment configuration
  3. Open the store (SQLite, or in-memory in local mode)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    Listen address (default from ADDR, fallback ":8080")
  -db      SQLite database path (default from DB_PATH)
           Use ":memory:" for a throwaway database
  -env     Path to .env file (default ".env"; missing file is fine)
  -local   In-memory store, nothing persisted (default from LOCAL_MODE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/alreadydead.db"

  # Scratch session, nothing written to disk
  ./server -local

  # Run on a different port
  ./server -addr=":3000"

SEE ALSO:
  - config/config.go: Environment variables and table-name config
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mccnalreadydead/DreamRoom-sub000/api"
	"github.com/mccnalreadydead/DreamRoom-sub000/config"
	"github.com/mccnalreadydead/DreamRoom-sub000/store"
	"github.com/mccnalreadydead/DreamRoom-sub000/store/sqlite"
)

func main() {
	// Flags override environment.
	envPath := flag.String("env", ".env", "path to .env file")
	addr := flag.String("addr", "", "listen address (overrides ADDR)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	local := flag.Bool("local", false, "in-memory store, nothing persisted")
	flag.Parse()

	cfg := config.Load(*envPath)
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *local {
		cfg.LocalMode = true
	}

	// Initialize store
	var st store.Store
	if cfg.LocalMode {
		log.Println("Local mode: in-memory store, nothing will be persisted")
		st = store.NewMemory()
	} else {
		s, err := sqlite.New(cfg.DBPath, sqlite.Tables{
			Inventory: cfg.Tables.Inventory,
			Sales:     cfg.Tables.Sales,
			Clients:   cfg.Tables.Clients,
			Sellers:   cfg.Tables.Sellers,
			Shipments: cfg.Tables.Shipments,
		})
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		st = s
	}
	defer st.Close()

	// Initialize handler and router
	handler := api.NewHandler(st)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Printf("API available at http://localhost%s/api", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
