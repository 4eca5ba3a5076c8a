package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"verification-dashboard/auth"
	"verification-dashboard/config"
	"verification-dashboard/dashboard"
	"verification-dashboard/database"
	"verification-dashboard/reports"
	"verification-dashboard/scraper"
	"verification-dashboard/services"
	"verification-dashboard/web"
)

const sweepInterval = 10 * time.Minute

func main() {
	// .env files are optional; real environment variables win.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg, err := config.Load(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store auth.TokenStore
	var sessionDB *database.SessionStore
	switch cfg.Session.Backend {
	case "postgres":
		sessionDB, err = database.Open(ctx, cfg.Session.DSN)
		if err != nil {
			log.Fatalf("session store: %v", err)
		}
		defer sessionDB.Close()
		store = sessionDB
	default:
		store = auth.NewMemoryStore()
	}

	verifier := services.NewVerifier(cfg.APIBaseURL(), cfg.API.Timeout)
	log.Printf("verification API at %s", verifier.BaseURL())

	opts := web.Options{Notifier: reports.NewNotifier(cfg.Slack.WebhookURL)}
	if cfg.Snapshots.Enabled {
		snap := scraper.Options{Proxy: cfg.Snapshots.Proxy, Timeout: cfg.Snapshots.Timeout}
		opts.Snapshot = func(ctx context.Context, website string) (*scraper.Snapshot, error) {
			return scraper.Capture(ctx, website, snap)
		}
	}

	workspaces := dashboard.NewRegistry()
	sessions := auth.NewManager(store, cfg.Session.Secret, cfg.Session.TTL, cfg.Session.SecureCookie)
	srv, err := web.New(verifier, sessions, workspaces, opts)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	go sweep(ctx, workspaces, sessionDB, cfg.Session.TTL)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	log.Printf("Starting server on port: http://localhost%s", cfg.ListenAddr)

	select {
	case <-ctx.Done():
		log.Printf("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// sweep drops idle workspaces and, with the postgres backend, purges
// credentials older than the session lifetime.
func sweep(ctx context.Context, workspaces *dashboard.Registry, db *database.SessionStore, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if n := workspaces.Sweep(ttl); n > 0 {
			log.Printf("dropped %d idle workspaces", n)
		}
		if db == nil {
			continue
		}
		n, err := db.Purge(ctx, ttl)
		if err != nil {
			log.Printf("purge sessions: %v", err)
		} else if n > 0 {
			log.Printf("purged %d expired sessions", n)
		}
	}
}
