package domain

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	valid := map[string]int64{"10": 10, " 7 ": 7, "-5": -5, "+3": 3}
	for in, want := range valid {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Fatalf("ParseAmount(%q) = %d,%v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "-0", "ten", "1e3", "2.5", "-9223372036854775808"} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ParseAmount(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestBalancePolicy_Apply(t *testing.T) {
	clamp := BalancePolicy{AllowNegative: false}
	if got, err := clamp.Apply(10, -25); err != nil || got != 0 {
		t.Fatalf("expected clamp to 0, got %d,%v", got, err)
	}
	if got, err := clamp.Apply(10, -4); err != nil || got != 6 {
		t.Fatalf("expected 6, got %d,%v", got, err)
	}

	open := BalancePolicy{AllowNegative: true}
	if got, err := open.Apply(10, -25); err != nil || got != -15 {
		t.Fatalf("expected -15, got %d,%v", got, err)
	}
	if got, err := open.Apply(math.MaxInt64-10, 10); err != nil || got != math.MaxInt64 {
		t.Fatalf("expected MaxInt64, got %d,%v", got, err)
	}
}

func TestBalancePolicy_ApplyRejectsOverflow(t *testing.T) {
	cases := []struct{ balance, delta int64 }{
		{math.MaxInt64 - 1, 10},
		{math.MaxInt64, 1},
		{math.MinInt64 + 1, -10},
		{-1, math.MinInt64},
	}
	for _, policy := range []BalancePolicy{{AllowNegative: true}, {AllowNegative: false}} {
		for _, tc := range cases {
			got, err := policy.Apply(tc.balance, tc.delta)
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("Apply(%d, %d) = %d,%v; expected ErrInvalidAmount", tc.balance, tc.delta, got, err)
			}
			if got != tc.balance {
				t.Fatalf("Apply(%d, %d) changed the balance to %d", tc.balance, tc.delta, got)
			}
		}
	}
}

func TestLedger_Clone(t *testing.T) {
	l := Ledger{1: {DisplayName: "a", Balance: 1}}
	c := l.Clone()
	c[1] = Profile{DisplayName: "b", Balance: 2}
	c[2] = Profile{}
	if l[1].DisplayName != "a" || len(l) != 1 {
		t.Fatalf("clone shares state: %v", l)
	}
}

func TestIdentity_StringRoundTrip(t *testing.T) {
	id, ok := ParseIdentity(Identity(-100123).String())
	if !ok || id != -100123 {
		t.Fatalf("round trip failed: %d,%v", id, ok)
	}
	if _, ok := ParseIdentity("@alice"); ok {
		t.Fatalf("handle parsed as identity")
	}
	for _, in := range []string{"+042", "042", " 42", "-0"} {
		if _, ok := ParseIdentity(in); ok {
			t.Fatalf("ParseIdentity(%q): non-canonical form accepted", in)
		}
	}
}
