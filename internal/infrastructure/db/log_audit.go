package db

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// LogAudit writes each adjustment as a structured log line.
type LogAudit struct {
	log zerolog.Logger
}

func NewLogAudit(log zerolog.Logger) *LogAudit {
	return &LogAudit{log: log}
}

func (a *LogAudit) Record(_ context.Context, adj domain.Adjustment) error {
	a.log.Info().
		Str("adjustment_id", adj.ID).
		Stringer("actor", adj.Actor).
		Stringer("target", adj.Target).
		Str("display_name", adj.DisplayName).
		Int64("delta", adj.Delta).
		Int64("balance", adj.Balance).
		Time("at", adj.At).
		Msg("adjustment")
	return nil
}
