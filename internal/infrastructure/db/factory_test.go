package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/infrastructure/config"
)

func TestResources_OpenFileStore(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{DataFile: filepath.Join(t.TempDir(), "points.json")}}
	r := NewResources(cfg, zerolog.Nop())
	ctx := context.Background()

	store, err := r.OpenStore(ctx, config.DriverFile)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, domain.Ledger{1: {DisplayName: "a", Balance: 2}}))

	l, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), l[1].Balance)

	pingers := r.Pingers()
	require.Contains(t, pingers, "store")
	assert.NoError(t, pingers["store"].Ping(ctx))
}

func TestResources_UnknownDrivers(t *testing.T) {
	r := NewResources(&config.Config{}, zerolog.Nop())

	_, err := r.OpenStore(context.Background(), "sqlite")
	assert.Error(t, err)
	_, err = r.OpenAudit(context.Background(), "kafka")
	assert.Error(t, err)
}

func TestResources_DedupDisabledWithoutRedis(t *testing.T) {
	r := NewResources(&config.Config{}, zerolog.Nop())
	d, err := r.Dedup(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestResources_LogAudit(t *testing.T) {
	r := NewResources(&config.Config{}, zerolog.Nop())
	sink, err := r.OpenAudit(context.Background(), config.DriverLog)
	require.NoError(t, err)
	assert.NoError(t, sink.Record(context.Background(), domain.Adjustment{ID: "x"}))
}

type failingStore struct{}

func (failingStore) Load(context.Context) (domain.Ledger, error) { return nil, errors.New("boom") }
func (failingStore) Save(context.Context, domain.Ledger) error   { return errors.New("boom") }

func TestInstrumentedStore_PassesErrorsThrough(t *testing.T) {
	s := Instrument(failingStore{}, "test")
	_, err := s.Load(context.Background())
	assert.EqualError(t, err, "boom")
	assert.EqualError(t, s.Save(context.Background(), nil), "boom")
	assert.NoError(t, s.Ping(context.Background()), "stores without Ping are always ready")
}
