package service

import (
	"slices"
	"strings"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// ResolveOrCreate returns the profile for id. An unknown id gets a new
// zero-balance profile named fallbackName (or the decimal id when that is
// empty) inserted into l, and created is true so the caller knows to persist.
func ResolveOrCreate(l domain.Ledger, id domain.Identity, fallbackName string) (p domain.Profile, created bool) {
	if p, ok := l[id]; ok {
		return p, false
	}
	name := strings.TrimSpace(fallbackName)
	if name == "" {
		name = id.String()
	}
	p = domain.Profile{DisplayName: name}
	l[id] = p
	return p, true
}

// FindByToken resolves a lookup token to an existing identity. A token that
// names a stored numeric identity wins; otherwise display names are compared
// case-insensitively with a leading "@" ignored on both sides.
//
// The scan is O(n) over an unordered map, so when several profiles share a
// display name the one returned is undefined. Use Matches to detect that.
// FindByToken never creates a profile.
func FindByToken(l domain.Ledger, token string) (domain.Identity, bool) {
	token = strings.TrimSpace(token)
	if id, ok := domain.ParseIdentity(token); ok {
		if _, exists := l[id]; exists {
			return id, true
		}
	}
	name := stripHandle(token)
	if name == "" {
		return 0, false
	}
	for id, p := range l {
		if strings.EqualFold(stripHandle(p.DisplayName), name) {
			return id, true
		}
	}
	return 0, false
}

// Matches returns every identity FindByToken could return for token, in
// ascending order.
func Matches(l domain.Ledger, token string) []domain.Identity {
	token = strings.TrimSpace(token)
	if id, ok := domain.ParseIdentity(token); ok {
		if _, exists := l[id]; exists {
			return []domain.Identity{id}
		}
	}
	name := stripHandle(token)
	if name == "" {
		return nil
	}
	var out []domain.Identity
	for id, p := range l {
		if strings.EqualFold(stripHandle(p.DisplayName), name) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func stripHandle(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}
