// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "eventgate/internal/common/errors"
	"eventgate/internal/common/logger"
	"eventgate/internal/common/observability"
	"eventgate/internal/events"
	"eventgate/internal/tier"
)

// ==========================
// Test Helper Functions
// ==========================

// One shared instance: the otel prometheus exporter registers collectors
// in the default registry, so it cannot be built per test.
var testObs = observability.New("eventgate-test", "")

type stubResolver struct {
	tiers map[string]tier.Tier
	err   error
}

func (s *stubResolver) ResolveTier(ctx context.Context, userID string) (tier.Tier, error) {
	if s.err != nil {
		return tier.Unknown, s.err
	}
	if userID == "" {
		return tier.Free, nil
	}
	if t, ok := s.tiers[userID]; ok {
		return t, nil
	}
	return tier.Free, nil
}

type stubService struct {
	err error
}

func (s *stubService) Listing(ctx context.Context, requester tier.Tier) (*events.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}

	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	list := []events.Event{
		{ID: uuid.New(), Title: "Community Meetup", StartsAt: base, RequiredTier: tier.Free},
		{ID: uuid.New(), Title: "Backstage Tour", StartsAt: base.Add(24 * time.Hour), RequiredTier: tier.Gold},
	}

	views := make([]events.EventView, 0, len(list))
	for _, e := range list {
		views = append(views, events.EventView{Event: e, Locked: tier.Locked(e.RequiredTier, requester)})
	}

	return &events.Listing{
		RequesterTier:   requester,
		AccessibleTiers: tier.Accessible(requester),
		Events:          views,
	}, nil
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func createTestServer(t *testing.T, resolver TierResolver, service ListingService, pg, rdb Pinger) http.Handler {
	srv := New(resolver, service, pg, rdb, testObs, logger.NewTestLogger(t))
	return srv.Routes()
}

func createDefaultServer(t *testing.T) http.Handler {
	resolver := &stubResolver{tiers: map[string]tier.Tier{
		"gold-user": tier.Gold,
	}}
	return createTestServer(t, resolver, &stubService{}, &stubPinger{}, &stubPinger{})
}

// ==========================
// Index Page Tests
// ==========================

func TestServer_Index_AnonymousSeesLockedEvents(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Your tier: free")
	// Both events render; the gold one is dimmed, not hidden.
	assert.Contains(t, body, "Community Meetup")
	assert.Contains(t, body, "Backstage Tour")
	assert.Contains(t, body, `class="event locked"`)
	assert.Contains(t, body, "Upgrade to gold to attend this event.")
}

func TestServer_Index_GoldUserSeesEverythingUnlocked(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequesterHeader, "gold-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Your tier: gold")
	assert.NotContains(t, body, `class="event locked"`)
	assert.NotContains(t, body, "Upgrade to")
}

func TestServer_Index_ResolverFailureDegradesToFree(t *testing.T) {
	resolver := &stubResolver{err: stderrors.NewIdentityUnavailableError("provider down")}
	handler := createTestServer(t, resolver, &stubService{}, &stubPinger{}, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequesterHeader, "gold-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The page stays up and paid content stays gated.
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your tier: free")
	assert.Contains(t, body, `class="event locked"`)
}

func TestServer_Index_ServiceErrorReturnsJSONError(t *testing.T) {
	service := &stubService{err: stderrors.NewQueryExecutionError("db gone")}
	handler := createTestServer(t, &stubResolver{}, service, &stubPinger{}, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	errBody, ok := payload["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(stderrors.ErrCodeQueryExecutionFailed), errBody["code"])
}

// ==========================
// JSON API Tests
// ==========================

func TestServer_ListEvents_LockFlagsInJSON(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set(RequesterHeader, "gold-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var listing events.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))

	assert.Equal(t, tier.Gold, listing.RequesterTier)
	assert.Equal(t, []tier.Tier{tier.Free, tier.Silver, tier.Gold}, listing.AccessibleTiers)
	require.Len(t, listing.Events, 2)
	assert.False(t, listing.Events[0].Locked)
	assert.False(t, listing.Events[1].Locked)
}

func TestServer_ListEvents_AnonymousLockFlags(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var listing events.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))

	assert.Equal(t, tier.Free, listing.RequesterTier)
	assert.Equal(t, []tier.Tier{tier.Free}, listing.AccessibleTiers)
	require.Len(t, listing.Events, 2)
	assert.False(t, listing.Events[0].Locked, "free event open to everyone")
	assert.True(t, listing.Events[1].Locked, "gold event locked for anonymous")
}

// ==========================
// Operational Endpoint Tests
// ==========================

func TestServer_Healthz_OK(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
}

func TestServer_Healthz_Degraded(t *testing.T) {
	pg := &stubPinger{err: io.ErrUnexpectedEOF}
	handler := createTestServer(t, &stubResolver{}, &stubService{}, pg, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status["status"])
	assert.NotEmpty(t, status["postgres"])
}

func TestServer_Metrics_Exposed(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "eventgate_") ||
		strings.Contains(rec.Body.String(), "go_"), "prometheus exposition expected")
}

func TestServer_RequestIDAssigned(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RequestIDPreserved(t *testing.T) {
	handler := createDefaultServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}
