package ports

import (
	"context"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// AuthService issues operator tokens for the HTTP API.
type AuthService interface {
	Login(ctx context.Context, actorID domain.Identity, password string) (string, error)
}

// Gate decides whether an identity may mutate other profiles' balances.
type Gate interface {
	IsPrivileged(id domain.Identity) bool
}
