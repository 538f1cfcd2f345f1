package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
)

// Tiered composes a primary (distributed) tier with an in-process
// fallback. Primary-tier failures never reach the caller: reads fall
// through to the fallback, writes and invalidations degrade to the
// fallback alone. Callers only ever see a value or ErrMiss.
type Tiered struct {
	primary  Store
	fallback Store
}

// NewTiered builds the two-tier store
func NewTiered(primary, fallback Store) *Tiered {
	return &Tiered{primary: primary, fallback: fallback}
}

// Get checks the primary tier first and falls back on miss or
// primary-tier failure. Both tiers missing or expired is a miss.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if t.primary != nil {
		data, err := t.primary.Get(ctx, key)
		if err == nil {
			metrics.RecordCacheHit("primary")
			return data, nil
		}
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Primary cache tier unavailable, using fallback")
		}
	}

	data, err := t.fallback.Get(ctx, key)
	if err == nil {
		metrics.RecordCacheHit("fallback")
		return data, nil
	}

	metrics.RecordCacheMiss()
	return nil, ErrMiss
}

// Set writes through to both tiers. A primary-tier failure is logged
// and swallowed; the fallback write decides the result.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if t.primary != nil {
		if err := t.primary.Set(ctx, key, value, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Primary cache tier write failed")
		}
	}

	return t.fallback.Set(ctx, key, value, ttl)
}

// Delete clears key from both tiers, swallowing primary-tier errors
func (t *Tiered) Delete(ctx context.Context, key string) error {
	if t.primary != nil {
		if err := t.primary.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Primary cache tier delete failed")
		}
	}

	return t.fallback.Delete(ctx, key)
}

// DeleteByPrefix clears matching keys from both tiers, swallowing
// primary-tier errors
func (t *Tiered) DeleteByPrefix(ctx context.Context, prefix string) error {
	if t.primary != nil {
		if err := t.primary.DeleteByPrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Primary cache tier clear failed")
		}
	}

	return t.fallback.DeleteByPrefix(ctx, prefix)
}
