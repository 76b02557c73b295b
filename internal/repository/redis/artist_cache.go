package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
)

const listKeyPrefix = "artists:approved:"

// cachedArtistPage is the serialized form of one listing page.
type cachedArtistPage struct {
	Artists []domain.Artist `json:"artists"`
	Total   int             `json:"total"`
}

// ArtistCache wraps an ArtistRepository and serves the approved-artist
// listing from Redis. The listing is the hottest read on the platform and
// tolerates the cache TTL of staleness; every other operation passes
// through. Cache failures fall back to the inner repository.
type ArtistCache struct {
	repository.ArtistRepository

	inner  repository.ArtistRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewArtistCache creates a caching wrapper around the given repository.
func NewArtistCache(inner repository.ArtistRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ArtistCache {
	return &ArtistCache{
		ArtistRepository: inner,
		inner:            inner,
		client:           client,
		ttl:              ttl,
		logger:           logger,
	}
}

// ListApproved returns approved, active artists, consulting Redis first.
func (c *ArtistCache) ListApproved(ctx context.Context, city string, offset, limit int) ([]domain.Artist, int, error) {
	key := fmt.Sprintf("%s%s:%d:%d", listKeyPrefix, city, offset, limit)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var page cachedArtistPage
		if err := json.Unmarshal(data, &page); err == nil {
			return page.Artists, page.Total, nil
		}
		// A corrupt entry is dropped and refetched.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "artist listing cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	artists, total, err := c.inner.ListApproved(ctx, city, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if payload, err := json.Marshal(cachedArtistPage{Artists: artists, Total: total}); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "artist listing cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	return artists, total, nil
}
