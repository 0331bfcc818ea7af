package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cmcmaster1/rheum-biologics-helper/config"
	"github.com/cmcmaster1/rheum-biologics-helper/data"
	"github.com/cmcmaster1/rheum-biologics-helper/dataset"
	"github.com/cmcmaster1/rheum-biologics-helper/handlers"
	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/metrics"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs"
	"github.com/cmcmaster1/rheum-biologics-helper/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.LogLevel, cfg.Env)

	lists, err := config.LoadLists(cfg.ConfigDir)
	if err != nil {
		logging.Error("Failed to load name lists", "error", err)
		os.Exit(1)
	}

	client := pbs.NewClient(cfg.BaseURL, cfg.SubscriptionKey, cfg.RateLimit, pbs.RetryPolicy{
		MaxAttempts:   cfg.MaxAttempts,
		RetryWait:     5 * time.Second,
		RateLimitWait: 60 * time.Second,
	})
	pipeline := pbs.NewPipeline(client, lists.Biologics, lists.RheumaticDiseases)

	container := data.NewContainer()
	container.SetServerStartTime(time.Now())

	writer := dataset.NewWriter(cfg.DatasetPath)
	sched := scheduler.NewScheduler(container, pipeline, writer, cfg.RefreshDay)

	// The initial load happens in the background so the server comes up
	// immediately; /health reports "starting" until the first run finishes
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Scheduler failed to start", "error", err)
			os.Exit(1)
		}
	}()

	handler := handlers.NewHTTPHandler(container)

	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(slogMiddleware)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Metrics)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Use(rateLimitHandler)

	router.Get("/combinations", handler.ServeCombinations)
	router.Get("/combinations/{pbsCode}", handler.FindByPBSCode)
	router.Get("/options", handler.ServeOptions)
	router.Get("/health", handler.HealthCheck)
	router.Method("GET", "/metrics", promhttp.Handler())

	server := &http.Server{
		Handler:      router,
		Addr:         cfg.Address + ":" + cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logging.Info("Starting server", "address", cfg.Address, "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logging.Info("Shutting down server...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
		}
	} else {
		logging.Info("Server exited gracefully")
	}
}
