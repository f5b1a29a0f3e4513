// internal/events/service_test.go
package events

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/common/logger"
	"eventgate/internal/tier"
)

// ==========================
// Test Helper Functions
// ==========================

type stubLister struct {
	list []Event
	err  error
}

func (s *stubLister) List(ctx context.Context) ([]Event, error) {
	return s.list, s.err
}

func createEvent(title string, required tier.Tier, startsAt time.Time) Event {
	return Event{
		ID:           uuid.New(),
		Title:        title,
		StartsAt:     startsAt,
		ImageURL:     "https://img.example/" + title + ".jpg",
		RequiredTier: required,
	}
}

func createTestEvents() []Event {
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	return []Event{
		createEvent("open-mic", tier.Free, base),
		createEvent("tasting", tier.Silver, base.Add(24*time.Hour)),
		createEvent("backstage", tier.Gold, base.Add(48*time.Hour)),
		createEvent("gala", tier.Platinum, base.Add(72*time.Hour)),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_Listing_LockFlags(t *testing.T) {
	tests := []struct {
		name      string
		requester tier.Tier
		locked    []bool // by event index: free, silver, gold, platinum
	}{
		{name: "free viewer", requester: tier.Free, locked: []bool{false, true, true, true}},
		{name: "silver viewer", requester: tier.Silver, locked: []bool{false, false, true, true}},
		{name: "gold viewer", requester: tier.Gold, locked: []bool{false, false, false, true}},
		{name: "platinum viewer", requester: tier.Platinum, locked: []bool{false, false, false, false}},
		{name: "unrecognized viewer", requester: tier.Unknown, locked: []bool{true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubLister{list: createTestEvents()}
			service := NewService(store, logger.NewTestLogger(t))

			listing, err := service.Listing(context.Background(), tt.requester)
			require.NoError(t, err)

			// Every event is present, in store order. Nothing filtered.
			require.Len(t, listing.Events, len(store.list))
			for i, view := range listing.Events {
				assert.Equal(t, store.list[i].ID, view.ID)
				assert.Equal(t, tt.locked[i], view.Locked, "event %s", view.Title)
			}

			assert.Equal(t, tt.requester, listing.RequesterTier)
			assert.Equal(t, tier.Accessible(tt.requester), listing.AccessibleTiers)
		})
	}
}

func TestService_Listing_EqualTierUnlocked(t *testing.T) {
	for _, tr := range tier.All() {
		t.Run(tr.String(), func(t *testing.T) {
			store := &stubLister{list: []Event{createEvent("same-tier", tr, time.Now().UTC())}}
			service := NewService(store, logger.NewTestLogger(t))

			listing, err := service.Listing(context.Background(), tr)
			require.NoError(t, err)
			require.Len(t, listing.Events, 1)
			assert.False(t, listing.Events[0].Locked)
		})
	}
}

func TestService_Listing_EmptyStore(t *testing.T) {
	service := NewService(&stubLister{}, logger.NewTestLogger(t))

	listing, err := service.Listing(context.Background(), tier.Gold)
	require.NoError(t, err)
	assert.Empty(t, listing.Events)
	assert.Equal(t, []tier.Tier{tier.Free, tier.Silver, tier.Gold}, listing.AccessibleTiers)
}

func TestService_Listing_StoreError(t *testing.T) {
	storeErr := goerrors.New("store down")
	service := NewService(&stubLister{err: storeErr}, logger.NewTestLogger(t))

	listing, err := service.Listing(context.Background(), tier.Free)
	assert.Nil(t, listing)
	assert.ErrorIs(t, err, storeErr)
}
