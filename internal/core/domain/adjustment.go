package domain

import "time"

// Adjustment records one applied balance change for the audit trail.
type Adjustment struct {
	ID          string    `json:"id"           bson:"_id"`
	Actor       Identity  `json:"actor"        bson:"actor"`
	Target      Identity  `json:"target"       bson:"target"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Delta       int64     `json:"delta"        bson:"delta"`
	Balance     int64     `json:"balance"      bson:"balance"`
	At          time.Time `json:"at"           bson:"at"`
}

// RankedEntry is one row of a leaderboard snapshot.
type RankedEntry struct {
	Rank        int      `json:"rank"`
	Identity    Identity `json:"id"`
	DisplayName string   `json:"username"`
	Balance     int64    `json:"points"`
}
