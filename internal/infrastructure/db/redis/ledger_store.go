package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

const ledgerKey = "ledger:profiles"

// LedgerStore keeps the persisted JSON document under a single key, so a
// Save is one SET and can never be observed half applied.
type LedgerStore struct {
	client *redis.Client
	key    string
}

func NewLedgerStore(client *redis.Client) *LedgerStore {
	return &LedgerStore{client: client, key: ledgerKey}
}

func (s *LedgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %v", domain.ErrStorageUnavailable, err)
	}
	return domain.DecodeLedger(data)
}

func (s *LedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	data, err := domain.EncodeLedger(ledger)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *LedgerStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
