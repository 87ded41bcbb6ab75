package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeLedger renders l in the persisted layout:
//
//	{"<numeric_id>": {"username": "<string>", "points": <integer>}, ...}
//
// Keys are emitted in sorted order, indented by four spaces.
func EncodeLedger(l Ledger) ([]byte, error) {
	records := make(map[string]Profile, len(l))
	for id, p := range l {
		records[id.String()] = p
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return data, nil
}

// DecodeLedger parses the persisted layout. Malformed JSON and non-numeric
// keys are reported as ErrStorageUnavailable.
func DecodeLedger(data []byte) (Ledger, error) {
	var records map[string]Profile
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode ledger: %v", ErrStorageUnavailable, err)
	}
	l := make(Ledger, len(records))
	for key, p := range records {
		id, ok := ParseIdentity(key)
		if !ok {
			return nil, fmt.Errorf("%w: decode ledger: invalid identity key %q", ErrStorageUnavailable, key)
		}
		l[id] = p
	}
	return l, nil
}
