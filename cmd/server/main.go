package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"levelup/internal/db"
	"levelup/internal/domain/audit"
	"levelup/internal/domain/reports"
	"levelup/internal/domain/review"
	"levelup/internal/domain/roster"
	"levelup/internal/domain/scoring"
	"levelup/internal/platform/config"
	"levelup/internal/platform/jobs"
	"levelup/internal/platform/metrics"
	authhandler "levelup/internal/transport/http/handlers/auth"
	reportshandler "levelup/internal/transport/http/handlers/reports"
	reviewhandler "levelup/internal/transport/http/handlers/review"
	rosterhandler "levelup/internal/transport/http/handlers/roster"
	scoringhandler "levelup/internal/transport/http/handlers/scoring"
	"levelup/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	scoringStore := scoring.NewStore(pool)
	scoringSvc := scoring.NewService(scoringStore, cfg.MinDataYear, cfg.MaxDataYear, cfg.WindowCapYears, cfg.RecalcChunkSize)
	rosterStore := roster.NewStore(pool)
	rosterSvc := roster.NewService(rosterStore, scoringStore, cfg.MinDataYear, cfg.MaxDataYear, cfg.WindowCapYears)
	reviewSvc := review.NewService(review.NewStore(pool))
	auditSvc := audit.New(pool)
	reportsSvc := reports.NewService(rosterSvc)
	collector := metrics.New()

	jobsSvc := jobs.New(pool)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(pool, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)

		rosterhandler.NewHandler(rosterSvc, auditSvc, cfg.MaxDataYear).RegisterRoutes(r)
		scoringhandler.NewHandler(scoringSvc, jobsSvc, auditSvc, collector).RegisterRoutes(r)
		reviewhandler.NewHandler(reviewSvc, auditSvc, collector, cfg.MaxDataYear).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, auditSvc, cfg.MaxDataYear).RegisterRoutes(r)
	})

	log.Printf("level-up server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
