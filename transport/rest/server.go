package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type sessionRepo interface {
	Create(ctx context.Context) (string, error)
}

// Start runs the HTTP side: session issuance and the health ping.
func Start(ctx context.Context, logger *slog.Logger, sessions sessionRepo, port string) error {
	handler := &handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handler.ping)
	mux.HandleFunc("POST /session", handler.createSession)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
