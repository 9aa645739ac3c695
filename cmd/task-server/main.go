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

	"task-list/internal/config"
	"task-list/internal/middleware"
	"task-list/internal/tasks"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // алиас, чтобы не конфликтовать с internal/middleware
)

// Здесь только:
// - загрузка конфига и создание зависимостей;
// - настройка middleware;
// - запуск HTTP-сервера и graceful shutdown.
func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Реестр живёт ровно столько, сколько процесс.
	reg := tasks.NewRegistry()

	handler := tasks.NewHandler(reg,
		tasks.WithRequestTimeout(cfg.RequestTimeout),
		tasks.WithAdminAuth(cfg.Admin.User, cfg.Admin.Password),
	)
	if cfg.Admin.User == "" {
		log.Printf("admin credentials not set, delete routes are open")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           chiWithMiddleware(handler.Router()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server start error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Printf("Server stopped")
}

// chiWithMiddleware навешивает базовые middleware на уже собранный роутер.
//
// internal/tasks остаётся независимым от общесервисных middleware.
func chiWithMiddleware(h http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)

	r.Mount("/", h)
	return r
}
