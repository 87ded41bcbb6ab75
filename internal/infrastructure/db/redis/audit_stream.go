package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

const (
	auditStream    = "ledger:adjustments"
	auditStreamCap = 100_000
)

// AuditStream appends adjustments to a capped Redis stream.
type AuditStream struct {
	client *redis.Client
}

func NewAuditStream(client *redis.Client) *AuditStream {
	return &AuditStream{client: client}
}

func (a *AuditStream) Record(ctx context.Context, adj domain.Adjustment) error {
	err := a.client.XAdd(ctx, &redis.XAddArgs{
		Stream: auditStream,
		MaxLen: auditStreamCap,
		Approx: true,
		Values: map[string]any{
			"id":           adj.ID,
			"actor":        adj.Actor.String(),
			"target":       adj.Target.String(),
			"display_name": adj.DisplayName,
			"delta":        strconv.FormatInt(adj.Delta, 10),
			"balance":      strconv.FormatInt(adj.Balance, 10),
			"at":           adj.At.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis xadd: %w", err)
	}
	return nil
}
