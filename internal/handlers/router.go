package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"disaster_response/internal/metrics"
	"disaster_response/internal/services"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// NewRouter wires the API routes and wraps them with CORS, panic recovery and
// an access log.
func NewRouter(svc *services.DisasterService, m *metrics.Metrics, log *slog.Logger, cfg RouterConfig) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{svc: svc, log: log.With("component", "http")}

	r := mux.NewRouter()
	r.Use(timeoutMiddleware(cfg.RequestTimeout))
	r.Use(metricsMiddleware(m))
	h.RegisterRoutes(r)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(c.Handler(r))
	return handlers.CombinedLoggingHandler(os.Stdout, recovered)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/locations", h.listLocations).Methods(http.MethodGet)
	api.HandleFunc("/locations", h.addLocation).Methods(http.MethodPost)
	api.HandleFunc("/route", h.route).Methods(http.MethodGet)
	api.HandleFunc("/nearest", h.nearest).Methods(http.MethodGet)
	api.HandleFunc("/reachable", h.reachable).Methods(http.MethodGet)
	api.HandleFunc("/within", h.within).Methods(http.MethodGet)
	api.HandleFunc("/distribution", h.distribution).Methods(http.MethodGet)
	api.HandleFunc("/allocations", h.allocations).Methods(http.MethodGet)
	api.HandleFunc("/allocations/{zone}", h.allocationForZone).Methods(http.MethodGet)
	api.HandleFunc("/dispatch/{zone}", h.dispatch).Methods(http.MethodGet)
	api.HandleFunc("/summary", h.summary).Methods(http.MethodGet)
	api.HandleFunc("/reload", h.reload).Methods(http.MethodPost)
	api.HandleFunc("/routes/close", h.closeRoute).Methods(http.MethodPost)
	api.HandleFunc("/routes/open", h.openRoute).Methods(http.MethodPost)
	api.HandleFunc("/routes/time", h.updateTravelTime).Methods(http.MethodPut)
}

func timeoutMiddleware(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// metricsMiddleware labels requests with the matched route template.
func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.WrapHandler(route, next).ServeHTTP(w, r)
		})
	}
}
