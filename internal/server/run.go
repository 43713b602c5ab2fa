package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ListenAndServe serves s.Handler on addr until ctx is cancelled, then gives
// outstanding requests shutdownTimeout to complete.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutting down", "timeout", shutdownTimeout)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Warn("graceful shutdown incomplete", "err", err)
			if cerr := srv.Close(); cerr != nil {
				return fmt.Errorf("server: close: %w", cerr)
			}
		}
		s.logger.Info("stopped")
		return nil
	}
}
