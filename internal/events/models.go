// internal/events/models.go
package events

import (
	"time"

	"github.com/google/uuid"

	"eventgate/internal/tier"
)

// Event is one record from the external event store. This service only
// reads events; lifecycle belongs to the store.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	ImageURL     string    `json:"imageUrl"`
	RequiredTier tier.Tier `json:"requiredTier"`
}

// EventView is an event paired with the lock decision for the current
// requester.
type EventView struct {
	Event
	Locked bool `json:"locked"`
}

// Listing is everything the presentation layer needs to render the page:
// every event in store order with its lock flag, plus the requester's
// accessible tier prefix. Locked events are included, never filtered.
type Listing struct {
	RequesterTier   tier.Tier   `json:"requesterTier"`
	AccessibleTiers []tier.Tier `json:"accessibleTiers"`
	Events          []EventView `json:"events"`
}
