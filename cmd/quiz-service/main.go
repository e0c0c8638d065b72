package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"quiz-maker/internal/config"
	"quiz-maker/internal/httpapi"
	"quiz-maker/internal/opentdb"
	"quiz-maker/internal/quiz"
	"quiz-maker/internal/quiz/sqlstore"
	"quiz-maker/internal/quizform"
)

func main() {
	cfg := config.FromEnv()

	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	driver := flag.String("db-driver", cfg.DBDriver, "database driver: sqlite3, sqlite or postgres")
	dsn := flag.String("db-dsn", cfg.DBDSN, "database DSN (driver default when empty)")
	sessionTTL := flag.Duration("session-ttl", cfg.SessionTTL, "idle edit session lifetime")
	opentdbURL := flag.String("opentdb-url", cfg.OpenTDBURL, "OpenTriviaDB API URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := sqlstore.Open(openCtx, sqlstore.Driver(*driver), *dsn)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer store.Close()

	service := quiz.NewService(quiz.NewRepository(store))
	sessions := quizform.NewSessions(*sessionTTL)
	trivia := opentdb.NewClientWithURL(*opentdbURL, &http.Client{Timeout: 10 * time.Second})
	api := httpapi.NewAPI(service, sessions, trivia)

	server := &http.Server{
		Addr: *addr,
		Handler: httpapi.NewRouter(api, httpapi.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
			LogRequests: cfg.LogRequests,
			MaxLogBytes: cfg.LogBodyBytes,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("quiz-service listening on %s (db=%s)", *addr, *driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval(*sessionTTL))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if removed := sessions.Sweep(); removed > 0 {
					log.Printf("expired %d idle edit sessions", removed)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("quiz-service shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
