package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"squad-service/internal/config"
	athleteCreate "squad-service/internal/http-server/handlers/athletes/create"
	athleteDelete "squad-service/internal/http-server/handlers/athletes/delete"
	athleteGet "squad-service/internal/http-server/handlers/athletes/get"
	athleteUpdate "squad-service/internal/http-server/handlers/athletes/update"
	availabilityGet "squad-service/internal/http-server/handlers/availability/get"
	availabilitySave "squad-service/internal/http-server/handlers/availability/save"
	candidatesGet "squad-service/internal/http-server/handlers/candidates/get"
	drillTypeCreate "squad-service/internal/http-server/handlers/drill_types/create"
	drillTypeDelete "squad-service/internal/http-server/handlers/drill_types/delete"
	drillTypeGet "squad-service/internal/http-server/handlers/drill_types/get"
	drillTypeUpdate "squad-service/internal/http-server/handlers/drill_types/update"
	formationGet "squad-service/internal/http-server/handlers/formation/get"
	formationSave "squad-service/internal/http-server/handlers/formation/save"
	periodCreate "squad-service/internal/http-server/handlers/periods/create"
	periodDelete "squad-service/internal/http-server/handlers/periods/delete"
	periodGet "squad-service/internal/http-server/handlers/periods/get"
	periodSetDefault "squad-service/internal/http-server/handlers/periods/set_default"
	periodUpdate "squad-service/internal/http-server/handlers/periods/update"
	planGet "squad-service/internal/http-server/handlers/plans/get"
	planSave "squad-service/internal/http-server/handlers/plans/save"
	positionCreate "squad-service/internal/http-server/handlers/positions/create"
	positionDelete "squad-service/internal/http-server/handlers/positions/delete"
	positionGet "squad-service/internal/http-server/handlers/positions/get"
	positionUpdate "squad-service/internal/http-server/handlers/positions/update"
	reportAthlete "squad-service/internal/http-server/handlers/reports/athlete"
	reportCohort "squad-service/internal/http-server/handlers/reports/cohort"
	"squad-service/internal/lock"
	svc "squad-service/internal/service"
	"squad-service/internal/storage/postgres"
	slogpretty "squad-service/pkg/handlers/slogPretty"
	"squad-service/pkg/middleware/mwLogger"
	"squad-service/pkg/sl"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Athletes
	router.Post("/athletes", athleteCreate.New(log, service))
	router.Get("/athletes", athleteGet.New(log, service))
	router.Get("/athletes/{id}", athleteGet.New(log, service))
	router.Put("/athletes/{id}", athleteUpdate.New(log, service))
	router.Delete("/athletes/{id}", athleteDelete.New(log, service))

	// Availability
	router.Get("/availability", availabilityGet.New(log, service))
	router.Post("/availability", availabilitySave.New(log, service))

	// Candidates
	router.Get("/candidates", candidatesGet.New(log, service))

	// Default Team
	router.Get("/default_team", formationGet.New(log, service))
	router.Put("/default_team", formationSave.New(log, service))

	// Session Plans
	router.Get("/session_plans", planGet.New(log, service))
	router.Put("/session_plans", planSave.New(log, service))

	// Drill Types
	router.Post("/drill_types", drillTypeCreate.New(log, service))
	router.Get("/drill_types", drillTypeGet.New(log, service))
	router.Put("/drill_types/{id}", drillTypeUpdate.New(log, service))
	router.Delete("/drill_types/{id}", drillTypeDelete.New(log, service))

	// Season Periods
	router.Post("/periods", periodCreate.New(log, service))
	router.Get("/periods", periodGet.New(log, service))
	router.Put("/periods/{id}", periodUpdate.New(log, service))
	router.Put("/periods/{id}/default", periodSetDefault.New(log, service))
	router.Delete("/periods/{id}", periodDelete.New(log, service))

	// Positions
	router.Post("/positions", positionCreate.New(log, service))
	router.Get("/positions", positionGet.New(log, service))
	router.Put("/positions/{id}", positionUpdate.New(log, service))
	router.Delete("/positions/{id}", positionDelete.New(log, service))

	// Reports
	router.Get("/reports/athlete/{id}", reportAthlete.New(log, service))
	router.Post("/reports/cohort", reportCohort.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	} else {
		log.Debug("Storage is nil, nothing to close")
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
