package ports

import (
	"context"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// BalanceResult is returned by GetBalance.
type BalanceResult struct {
	Identity    domain.Identity
	DisplayName string
	Balance     int64
	// Created is true when this call bootstrapped the actor's profile.
	Created bool
}

// AdjustInput is the DTO passed from the transport layer to AdjustBalance.
// Amount is the raw argument so that authorization is checked before the
// amount is parsed.
type AdjustInput struct {
	Actor     domain.Identity
	Target    string
	Amount    string
	Direction domain.Direction
}

// AdjustResult is returned by AdjustBalance.
type AdjustResult struct {
	Identity    domain.Identity
	DisplayName string
	// Delta is the signed amount requested; Applied is what actually
	// changed once the balance policy ran.
	Delta   int64
	Applied int64
	Balance int64
}

// LedgerService is the contract consumed by the chat and HTTP transports.
type LedgerService interface {
	GetBalance(ctx context.Context, actor domain.Actor) (*BalanceResult, error)
	AdjustBalance(ctx context.Context, in AdjustInput) (*AdjustResult, error)
	// Leaderboard returns at most limit entries; limit <= 0 selects the default.
	Leaderboard(ctx context.Context, limit int) ([]domain.RankedEntry, error)
	// Snapshot returns a copy of the whole ledger.
	Snapshot(ctx context.Context) (domain.Ledger, error)
}
