package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker remembers Telegram update IDs so a redelivered webhook call is
// handled once. Key format: dedup:update:<update_id>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// FirstSeen atomically marks updateID as processed and reports whether this
// call was the first to do so.
func (d *DedupChecker) FirstSeen(ctx context.Context, updateID int64) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(updateID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return ok, nil
}

func (d *DedupChecker) key(updateID int64) string {
	return fmt.Sprintf("dedup:update:%d", updateID)
}
