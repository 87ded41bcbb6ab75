package domain

import (
	"math"
	"strconv"
	"strings"
)

// Identity is the chat-platform user ID. It is the only key of the ledger.
type Identity int64

// String returns the decimal form used as the persisted map key.
func (id Identity) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseIdentity parses an identity token. Only the canonical decimal form
// produced by String is accepted, so "+042" or " 42" never name identity 42.
func ParseIdentity(s string) (Identity, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != s {
		return 0, false
	}
	return Identity(n), true
}

// Profile is the mutable record owned by one Identity.
type Profile struct {
	DisplayName string `json:"username" bson:"username"`
	Balance     int64  `json:"points"   bson:"points"`
}

// Ledger maps every known Identity to its Profile. It carries no ordering.
type Ledger map[Identity]Profile

// Clone returns a copy that can be mutated without affecting l.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, p := range l {
		out[id] = p
	}
	return out
}

// Direction tells whether an adjustment grants or revokes points.
type Direction int

const (
	Credit Direction = iota
	Debit
)

func (d Direction) String() string {
	if d == Debit {
		return "debit"
	}
	return "credit"
}

// BalancePolicy governs how a delta is applied to a balance.
type BalancePolicy struct {
	// AllowNegative keeps deductions unclamped. When false a balance never
	// drops below zero.
	AllowNegative bool
}

// Apply returns the balance after adding delta under the policy. A sum
// outside the int64 range is rejected with ErrInvalidAmount.
func (p BalancePolicy) Apply(balance, delta int64) (int64, error) {
	if (delta > 0 && balance > math.MaxInt64-delta) || (delta < 0 && balance < math.MinInt64-delta) {
		return balance, ErrInvalidAmount
	}
	next := balance + delta
	if !p.AllowNegative && next < 0 {
		return 0, nil
	}
	return next, nil
}

// ParseAmount parses a points argument. Zero is rejected because it would
// be a silent no-op. MinInt64 is rejected since it has no positive
// counterpart to flip to when the direction is reversed.
func ParseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 || n == math.MinInt64 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}
