package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"tasklist/internal/store"
)

// HeaderRequestID carries the request id assigned by the server.
const HeaderRequestID = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// NewRouter registers all task routes.
func NewRouter(st store.TaskStore, logger zerolog.Logger) *mux.Router {
	h := NewHandler(st)

	router := mux.NewRouter()
	router.Use(requestLogger(logger))

	router.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	router.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/load", h.LoadTasks).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", h.GetTask).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", h.UpdateTask).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/tasks/{taskID:[0-9]+}", h.DeleteTask).Methods(http.MethodDelete)
	return router
}

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id, puts a request-scoped logger in
// its context, and logs one line when the handler returns.
func requestLogger(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			reqLogger := logger.With().Str("request_id", id).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

// Serve listens on addr until ctx ends, then shuts down gracefully.
func Serve(ctx context.Context, addr string, st store.TaskStore, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(st, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
