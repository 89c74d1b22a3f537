package proposal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// CachedSource decorates a ProposalSource with a Redis cache keyed by the
// requirement text digest. Cache failures are logged and fall through to the
// inner source; the cache never makes a proposal call fail.
type CachedSource struct {
	inner  ports.ProposalSource
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedSource wraps the inner source with a Redis-backed cache
func NewCachedSource(inner ports.ProposalSource, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Propose returns cached proposals when present, otherwise delegates to the
// inner source and stores the result
func (c *CachedSource) Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error) {
	key := cacheKey(requirementText)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached []domain.TestProposal
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		c.logger.WithField("key", key).Warn("dropping undecodable proposal cache entry")
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("proposal cache read failed")
	}

	proposals, err := c.inner.Propose(ctx, requirementText)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(proposals); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Warn("proposal cache write failed")
		}
	}

	return proposals, nil
}

func cacheKey(requirementText string) string {
	sum := sha256.Sum256([]byte(requirementText))
	return fmt.Sprintf("equilix:proposals:%s", hex.EncodeToString(sum[:]))
}
