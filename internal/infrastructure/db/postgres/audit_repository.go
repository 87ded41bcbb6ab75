package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, adj domain.Adjustment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ledger_adjustments (id, actor, target, display_name, delta, balance, at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		adj.ID, int64(adj.Actor), int64(adj.Target), adj.DisplayName, adj.Delta, adj.Balance, adj.At,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}
