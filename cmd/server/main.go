/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the budget engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags, overridable via environment (.env supported):
  -port        / PORT                HTTP server port (default: 8080)
  -db          / DB_PATH             SQLite path (default: budget.db,
                                     ":memory:" for in-memory)
  -concurrency / REPORT_CONCURRENCY  Per-worker report fan-out bound
  -worker-timeout-ms / FETCH_TIMEOUT_MS
                                     Per-worker fetch timeout (0 = none)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/budget-engine/api"
	"github.com/warp/budget-engine/store/sqlite"
)

func main() {
	// .env is optional; flags carry the defaults.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "budget.db"), "SQLite database path")
	concurrency := flag.Int("concurrency", envInt("REPORT_CONCURRENCY", 0), "report fan-out bound (0 = default)")
	workerTimeoutMS := flag.Int("worker-timeout-ms", envInt("FETCH_TIMEOUT_MS", 0), "per-worker fetch timeout in ms (0 = none)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)
	handler.Builder.Concurrency = *concurrency
	handler.Builder.WorkerTimeout = time.Duration(*workerTimeoutMS) * time.Millisecond

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on http://localhost:%d", *port)
		log.Printf("[Server] API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[Server] Stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
