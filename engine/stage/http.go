package stage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// toggleTimeout bounds how long POST /toggle waits for the loop.
const toggleTimeout = 2 * time.Second

// responder writes JSON bodies and logs the ones that fail to go out.
type responder struct {
	logger zerolog.Logger
}

// NewRouter builds the control surface: GET /status, POST /toggle and, when m
// is non-nil, GET /metrics.
//
// Parameters:
//   - s: the stage
//   - m: the metrics set, or nil
//   - logger: receives response write failures at debug level
//
// Returns:
//   - http.Handler: the router
func NewRouter(s Stage, m *telemetry.Metrics, logger zerolog.Logger) http.Handler {
	out := responder{logger: logger.With().Str("component", "http").Logger()}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if m != nil {
		router.Use(m.Middleware)
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	router.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		out.writeJSON(w, r, http.StatusOK, s.Status())
	})

	router.Post("/toggle", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), toggleTimeout)
		defer cancel()

		st, err := s.RequestToggleWait(ctx)
		switch {
		case errors.Is(err, ErrStopped):
			out.writeError(w, r, http.StatusServiceUnavailable, "stopped")
		case err != nil:
			out.writeError(w, r, http.StatusGatewayTimeout, "loop_timeout")
		default:
			out.writeJSON(w, r, http.StatusOK, st)
		}
	})

	return router
}

// Serve runs an HTTP server on addr until ctx is cancelled.
//
// Parameters:
//   - ctx: cancelling it shuts the server down gracefully
//   - addr: the listen address
//   - h: the handler to serve
//   - logger: receives lifecycle events
//
// Returns:
//   - error: nil after a clean shutdown, otherwise the listen error
func Serve(ctx context.Context, addr string, h http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("http control surface listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (o responder) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		o.logger.Debug().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("response write failed")
	}
}

func (o responder) writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	o.writeJSON(w, r, status, map[string]string{"error": code})
}
