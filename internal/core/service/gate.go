package service

import "github.com/bountyboard/points-ledger/internal/core/domain"

// AdminGate is a fixed membership set of privileged identities. It is built
// once at startup and never mutated, so it is safe for concurrent use.
type AdminGate struct {
	ids map[domain.Identity]struct{}
}

func NewAdminGate(ids []int64) *AdminGate {
	g := &AdminGate{ids: make(map[domain.Identity]struct{}, len(ids))}
	for _, id := range ids {
		g.ids[domain.Identity(id)] = struct{}{}
	}
	return g
}

// IsPrivileged reports whether id may adjust other profiles' balances.
func (g *AdminGate) IsPrivileged(id domain.Identity) bool {
	_, ok := g.ids[id]
	return ok
}

// Len returns the number of privileged identities.
func (g *AdminGate) Len() int {
	return len(g.ids)
}
