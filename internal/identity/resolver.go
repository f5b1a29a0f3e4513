// internal/identity/resolver.go
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "eventgate/internal/common/errors"
	"eventgate/internal/common/logger"
	"eventgate/internal/common/metrics"
	"eventgate/internal/tier"
)

const tierCachePrefix = "tier:"

// ProfileFetcher is the slice of the provider client the resolver needs.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// Resolver resolves a requester's membership tier: redis cache first, then
// the identity provider, defaulting to free when the provider has no tier
// on file.
type Resolver struct {
	provider ProfileFetcher
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewResolver(provider ProfileFetcher, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Resolver{
		provider: provider,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "tier-resolver"}),
	}
}

// ResolveTier returns the tier for a user id. An empty user id is an
// anonymous viewer and resolves to free without touching the provider. A
// present-but-unrecognized tier label resolves to tier.Unknown, which
// sees every event locked; that case is logged at warn so unexpected
// labels arriving from the provider are visible.
func (r *Resolver) ResolveTier(ctx context.Context, userID string) (tier.Tier, error) {
	if userID == "" {
		metrics.TierResolutionsTotal.WithLabelValues("anonymous", tier.Free.String()).Inc()
		return tier.Free, nil
	}

	cacheKey := tierCachePrefix + userID
	if label, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
		return r.classify(label, userID, "cache"), nil
	} else if !errors.Is(err, redis.Nil) {
		// Cache trouble is soft: fall through to the provider.
		r.logger.Warn("tier cache read failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}

	profile, err := r.provider.GetProfile(ctx, userID)
	if err != nil {
		var stdErr *stderrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == stderrors.ErrCodeProfileNotFound {
			// No profile on record: the documented default applies.
			r.cache(ctx, cacheKey, "")
			metrics.TierResolutionsTotal.WithLabelValues("default", tier.Free.String()).Inc()
			return tier.Free, nil
		}
		return tier.Unknown, err
	}

	label := profile.TierLabel()
	r.cache(ctx, cacheKey, label)

	return r.classify(label, userID, "provider"), nil
}

func (r *Resolver) classify(label, userID, source string) tier.Tier {
	t, ok := tier.Parse(label)
	if !ok {
		r.logger.Warn("unrecognized tier label on profile", map[string]interface{}{
			"userId": userID,
			"label":  label,
		})
		metrics.TierResolutionsTotal.WithLabelValues(source, "unrecognized").Inc()
		return tier.Unknown
	}

	metrics.TierResolutionsTotal.WithLabelValues(source, t.String()).Inc()
	return t
}

func (r *Resolver) cache(ctx context.Context, key, label string) {
	if err := r.redis.Set(ctx, key, label, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("tier cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
