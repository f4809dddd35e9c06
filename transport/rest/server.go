package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts every game endpoint on a chi router.
func NewRouter(handlers *Handlers) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", handlers.ping)

	router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handlers.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handlers.getSession)
			r.Post("/cells/{index}", handlers.selectCell)
			r.Post("/reset", handlers.resetBoard)
			r.Post("/mode", handlers.changeMode)
			r.Post("/score/clear", handlers.clearScore)
		})
	})

	return router
}

// Start - runs the HTTP server until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
