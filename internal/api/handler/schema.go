package handler

import "github.com/bountyboard/points-ledger/internal/core/domain"

type tokenRequest struct {
	ActorID  int64  `json:"actor_id" validate:"gt=0"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type balanceResponse struct {
	ID       domain.Identity `json:"id"`
	Username string          `json:"username"`
	Points   int64           `json:"points"`
	Created  bool            `json:"created,omitempty"`
}

// adjustRequest carries a signed delta: positive credits, negative debits.
type adjustRequest struct {
	Target string `json:"target" validate:"required,max=64"`
	Delta  int64  `json:"delta"`
}

type adjustResponse struct {
	ID       domain.Identity `json:"id"`
	Username string          `json:"username"`
	Delta    int64           `json:"delta"`
	Applied  int64           `json:"applied"`
	Points   int64           `json:"points"`
}

type leaderboardResponse struct {
	Entries []domain.RankedEntry `json:"entries"`
}
