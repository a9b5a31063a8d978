package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"clubsphere/internal/payment"
	platformredis "clubsphere/internal/platform/redis"
)

const (
	cacheKeyPrefix = "payment:recorded:"
	cacheTTL       = 24 * time.Hour
)

// ResultCache short-circuits repeat confirmations for sessions that are
// already fully recorded. Strictly an optimization: every error degrades to
// a miss, and correctness always rests on the ledger's constraints, never
// on this cache.
type ResultCache struct {
	client *platformredis.Client
	logger *slog.Logger
}

// NewResultCache returns nil when redis is not configured; the reconciler
// treats a nil cache as all-misses.
func NewResultCache(client *platformredis.Client, logger *slog.Logger) *ResultCache {
	if client == nil {
		return nil
	}
	return &ResultCache{client: client, logger: logger}
}

func (c *ResultCache) Get(ctx context.Context, sessionID string) *payment.ReconciliationResult {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+sessionID).Bytes()
	if err != nil {
		return nil
	}
	var res payment.ReconciliationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.logger.WarnContext(ctx, "corrupt cached reconciliation result", "session_id", sessionID)
		return nil
	}
	// A replay never changes the member set.
	res.Enrolled = false
	res.AlreadyEnrolled = true
	return &res
}

func (c *ResultCache) Put(ctx context.Context, sessionID string, res *payment.ReconciliationResult) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+sessionID, raw, cacheTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache reconciliation result",
			"error", err,
			"session_id", sessionID,
		)
	}
}
