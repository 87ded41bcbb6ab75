package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeLedger_PersistedLayout(t *testing.T) {
	raw := []byte(`{
    "42": {"username": "@hunter", "points": 50},
    "7": {"username": "Alice", "points": -3}
}`)

	l, err := DecodeLedger(raw)
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if len(l) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(l))
	}
	if l[42] != (Profile{DisplayName: "@hunter", Balance: 50}) {
		t.Fatalf("unexpected profile 42: %+v", l[42])
	}
	if l[7].Balance != -3 {
		t.Fatalf("unexpected profile 7: %+v", l[7])
	}
}

func TestEncodeLedger_PersistedLayout(t *testing.T) {
	data, err := EncodeLedger(Ledger{42: {DisplayName: "@hunter", Balance: 50}})
	if err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}

	var generic map[string]map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	rec, ok := generic["42"]
	if !ok {
		t.Fatalf("missing key \"42\": %s", data)
	}
	if rec["username"] != "@hunter" || rec["points"] != float64(50) {
		t.Fatalf("unexpected record: %v", rec)
	}
	if len(rec) != 2 {
		t.Fatalf("record must only carry username and points: %v", rec)
	}
}

func TestDecodeLedger_Corrupt(t *testing.T) {
	for _, raw := range []string{``, `{`, `[]`, `{"abc": {"username": "x", "points": 1}}`, `{"1": {"points": "ten"}}`} {
		if _, err := DecodeLedger([]byte(raw)); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("%q: expected ErrStorageUnavailable, got %v", raw, err)
		}
	}
}

func TestDecodeLedger_EmptyObject(t *testing.T) {
	l, err := DecodeLedger([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Fatalf("expected empty non-nil ledger, got %v", l)
	}
}
