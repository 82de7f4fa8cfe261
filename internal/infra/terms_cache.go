package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"partsadmin/internal/pricing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisTermsCache stores resolved terms in one hash per part,
// terms:<part_id>, with one field per organization id. Invalidating a part
// drops every organization's entry at once.
type RedisTermsCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	breaker *Breaker
}

func NewRedisTermsCache(rdb *redis.Client, ttl time.Duration) *RedisTermsCache {
	return &RedisTermsCache{rdb: rdb, ttl: ttl, breaker: NewBreaker(5, 30*time.Second)}
}

func termsKey(partID uuid.UUID) string { return "terms:" + partID.String() }

func (c *RedisTermsCache) Get(ctx context.Context, partID, organizationID uuid.UUID) (*pricing.EffectiveTerms, bool) {
	var raw string
	err := c.breaker.Do(func() error {
		var err error
		raw, err = c.rdb.HGet(ctx, termsKey(partID), organizationID.String()).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		c.warn(err, "get")
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var t pricing.EffectiveTerms
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		log.Warn().Err(err).Str("part_id", partID.String()).Msg("terms cache: dropping undecodable entry")
		return nil, false
	}
	return &t, true
}

func (c *RedisTermsCache) Set(ctx context.Context, t pricing.EffectiveTerms) {
	payload, err := json.Marshal(t)
	if err != nil {
		log.Warn().Err(err).Msg("terms cache: encode")
		return
	}
	key := termsKey(t.PartID)
	err = c.breaker.Do(func() error {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, key, t.OrganizationID.String(), payload)
		pipe.Expire(ctx, key, c.ttl)
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		c.warn(err, "set")
	}
}

func (c *RedisTermsCache) Invalidate(ctx context.Context, partIDs ...uuid.UUID) {
	if len(partIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(partIDs))
	for _, id := range partIDs {
		keys = append(keys, termsKey(id))
	}
	if err := c.breaker.Do(func() error { return c.rdb.Del(ctx, keys...).Err() }); err != nil {
		// Entries left behind expire with the TTL.
		log.Error().Err(err).Strs("keys", keys).Msg("terms cache: invalidate failed")
	}
}

func (c *RedisTermsCache) warn(err error, op string) {
	if errors.Is(err, ErrBreakerOpen) {
		return
	}
	log.Warn().Err(err).Str("op", op).Str("breaker", c.breaker.State()).Msg("terms cache unavailable")
}
