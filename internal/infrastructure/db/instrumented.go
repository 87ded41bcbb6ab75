// Package db selects and wires the configured ledger store and audit sink.
package db

import (
	"context"
	"time"

	"github.com/bountyboard/points-ledger/internal/api/metrics"
	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

// InstrumentedStore records duration and failures of every store call.
type InstrumentedStore struct {
	next   ports.LedgerStore
	driver string
}

func Instrument(next ports.LedgerStore, driver string) *InstrumentedStore {
	return &InstrumentedStore{next: next, driver: driver}
}

func (s *InstrumentedStore) Load(ctx context.Context) (domain.Ledger, error) {
	start := time.Now()
	l, err := s.next.Load(ctx)
	s.observe("load", start, err)
	if err == nil {
		metrics.Profiles.Set(float64(len(l)))
	}
	return l, err
}

func (s *InstrumentedStore) Save(ctx context.Context, ledger domain.Ledger) error {
	start := time.Now()
	err := s.next.Save(ctx, ledger)
	s.observe("save", start, err)
	return err
}

// Ping forwards to the wrapped store when it can report readiness.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(s.driver, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(s.driver, op).Inc()
	}
}
