package ports

import (
	"context"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// LedgerStore persists the whole ledger.
type LedgerStore interface {
	// Load returns the persisted ledger, or an empty one when nothing has
	// been saved yet. A corrupt or unreadable medium yields
	// domain.ErrStorageUnavailable.
	Load(ctx context.Context) (domain.Ledger, error)
	// Save overwrites the persisted ledger. Implementations must never leave
	// a partially written ledger behind.
	Save(ctx context.Context, ledger domain.Ledger) error
}

// Pinger is implemented by stores and clients that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
