package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/atvirokodosprendimai/labelhub/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMaxBodyBytes = 1 << 20

type Options struct {
	// RateLimit is requests per RateWindow per client IP; zero disables limiting.
	RateLimit    int
	RateWindow   time.Duration
	MaxBodyBytes int64
	// Ping backs /healthz when set.
	Ping func(ctx context.Context) error
}

func NewRouter(handlers []event.Handler, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(opts.RateLimit, window))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ping != nil {
			if err := opts.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		r.HandleFunc(h.Path(), serveEvent(h, opts.MaxBodyBytes))
	}
	return r
}

// serveEvent converts the request into an Event and writes the handler's Response verbatim.
func serveEvent(h event.Handler, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := toEvent(w, r, maxBody)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "request body too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "could not read request body"})
			return
		}

		resp := h.Handle(r.Context(), ev)
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

func toEvent(w http.ResponseWriter, r *http.Request, maxBody int64) (event.Event, error) {
	ev := event.Event{HTTPMethod: r.Method}

	values := r.URL.Query()
	if len(values) > 0 {
		ev.QueryStringParameters = make(map[string]string, len(values))
		for k, v := range values {
			if len(v) > 0 {
				ev.QueryStringParameters[k] = v[0]
			}
		}
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			return event.Event{}, err
		}
		if len(body) > 0 {
			s := string(body)
			ev.Body = &s
		}
	}
	return ev, nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
