package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wanderhq/tour-api/internal/models"
)

const detailTTL = 5 * time.Minute

// PostCache is a read cache for post detail lookups. Only the viewer
// independent part of the response is cached; liked_by_user is computed per
// request. Writes to a post invalidate its entry, so staleness is bounded by
// the TTL for everything else.
type PostCache struct {
	client *redis.Client
}

func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

func key(postID int64) string {
	return fmt.Sprintf("post:%d", postID)
}

// GetPost returns nil, nil on a cache miss.
func (c *PostCache) GetPost(ctx context.Context, postID int64) (*models.PostFeedItem, error) {
	data, err := c.client.Get(ctx, key(postID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var item models.PostFeedItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return &item, nil
}

func (c *PostCache) SetPost(ctx context.Context, item *models.PostFeedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	if err := c.client.Set(ctx, key(item.ID), data, detailTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *PostCache) InvalidatePost(ctx context.Context, postID int64) error {
	if err := c.client.Del(ctx, key(postID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
