// internal/events/store.go
package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	stderrors "eventgate/internal/common/errors"
	"eventgate/internal/common/logger"
	"eventgate/internal/common/metrics"
	"eventgate/internal/tier"
)

// Lister is the read contract against the event store.
type Lister interface {
	List(ctx context.Context) ([]Event, error)
}

// Store reads events from the hosted Postgres database. Ordering is done
// in SQL: the store contract is ascending start time.
type Store struct {
	db         *sql.DB
	timeout    time.Duration
	maxResults int
	logger     logger.Logger
}

func NewStore(db *sql.DB, timeout time.Duration, maxResults int, log logger.Logger) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxResults <= 0 {
		maxResults = 200
	}
	return &Store{
		db:         db,
		timeout:    timeout,
		maxResults: maxResults,
		logger:     log.WithFields(map[string]interface{}{"component": "event-store"}),
	}
}

const listQuery = `SELECT id, title, description, starts_at, image_url, required_tier FROM events ORDER BY starts_at ASC LIMIT $1`

// List returns events ordered by scheduled start time ascending. A row
// whose required_tier is not one of the canonical labels violates the
// store contract and surfaces as a STORE_ROW_INVALID error rather than
// silently locking everything.
func (s *Store) List(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, listQuery, s.maxResults)
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewQueryTimeoutError(err.Error())
		}
		return nil, stderrors.NewQueryExecutionError(err.Error())
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev          Event
			description sql.NullString
			tierLabel   string
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &description, &ev.StartsAt, &ev.ImageURL, &tierLabel); err != nil {
			metrics.StoreQueriesTotal.WithLabelValues("error").Inc()
			return nil, stderrors.NewQueryExecutionError(err.Error())
		}

		requiredTier, ok := tier.Parse(tierLabel)
		if !ok || tierLabel == "" {
			metrics.StoreQueriesTotal.WithLabelValues("invalid_row").Inc()
			return nil, stderrors.NewStoreRowInvalidError(
				fmt.Sprintf("event %s has unrecognized required_tier %q", ev.ID, tierLabel))
		}
		ev.RequiredTier = requiredTier

		if description.Valid {
			ev.Description = description.String
		}
		ev.StartsAt = ev.StartsAt.UTC()

		out = append(out, ev)
	}

	if err := rows.Err(); err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("error").Inc()
		return nil, stderrors.NewQueryExecutionError(err.Error())
	}

	metrics.StoreQueriesTotal.WithLabelValues("ok").Inc()
	return out, nil
}
