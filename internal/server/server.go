// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventgate/internal/common/errors"
	"eventgate/internal/common/logger"
	"eventgate/internal/common/observability"
	"eventgate/internal/events"
	"eventgate/internal/tier"
)

// RequesterHeader carries the authenticated user id injected by the
// fronting auth proxy. Session handling is delegated; an absent header is
// an anonymous viewer.
const RequesterHeader = "X-User-ID"

// TierResolver resolves the requester's membership tier.
type TierResolver interface {
	ResolveTier(ctx context.Context, userID string) (tier.Tier, error)
}

// ListingService assembles the tier-gated event listing.
type ListingService interface {
	Listing(ctx context.Context, requester tier.Tier) (*events.Listing, error)
}

// Pinger is implemented by the database clients for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	resolver   TierResolver
	service    ListingService
	postgres   Pinger
	redis      Pinger
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func New(resolver TierResolver, service ListingService, pg, rdb Pinger, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		resolver:   resolver,
		service:    service,
		postgres:   pg,
		redis:      rdb,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "http"}),
		errHandler: errors.NewErrorHandler(log),
	}
}

// Routes builds the HTTP handler with all middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return s.withRequestID(s.withTelemetry(mux))
}

// resolveRequester maps the request to a tier. Resolver trouble degrades
// to the free view instead of failing the page: the listing stays up,
// paid content stays gated.
func (s *Server) resolveRequester(r *http.Request) tier.Tier {
	userID := r.Header.Get(RequesterHeader)

	t, err := s.resolver.ResolveTier(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Warn("tier resolution failed, serving free view", map[string]interface{}{
			"userId": userID,
		})
		return tier.Free
	}
	return t
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	requester := s.resolveRequester(r)

	listing, err := s.service.Listing(r.Context(), requester)
	if err != nil {
		s.errHandler.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listingTemplate.Execute(w, listing); err != nil {
		s.logger.WithError(err).Error("render failed", nil)
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requester := s.resolveRequester(r)

	listing, err := s.service.Listing(r.Context(), requester)
	if err != nil {
		s.errHandler.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listing)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if err := s.postgres.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["postgres"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := s.redis.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["redis"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
