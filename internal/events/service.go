// internal/events/service.go
package events

import (
	"context"
	"strconv"

	"eventgate/internal/common/logger"
	"eventgate/internal/common/metrics"
	"eventgate/internal/tier"
)

// Service assembles the tier-gated listing view: every stored event, in
// store order, with a per-event lock decision for the requester.
type Service struct {
	store  Lister
	logger logger.Logger
}

func NewService(store Lister, log logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "event-service"}),
	}
}

// Listing returns the full event list for a requester. Events above the
// requester's tier come back flagged locked; nothing is filtered out.
func (s *Service) Listing(ctx context.Context, requester tier.Tier) (*Listing, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(list))
	for _, ev := range list {
		locked := tier.Locked(ev.RequiredTier, requester)
		metrics.LockDecisionsTotal.WithLabelValues(strconv.FormatBool(locked)).Inc()
		views = append(views, EventView{Event: ev, Locked: locked})
	}

	return &Listing{
		RequesterTier:   requester,
		AccessibleTiers: tier.Accessible(requester),
		Events:          views,
	}, nil
}
