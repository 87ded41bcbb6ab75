package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// LedgerStore maps one row of ledger_profiles to one profile. Save replaces
// every row inside a single transaction.
type LedgerStore struct {
	db *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	rows, err := s.db.Query(ctx, "SELECT id, username, points FROM ledger_profiles")
	if err != nil {
		return nil, fmt.Errorf("%w: query profiles: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	l := domain.Ledger{}
	for rows.Next() {
		var (
			id int64
			p  domain.Profile
		)
		if err := rows.Scan(&id, &p.DisplayName, &p.Balance); err != nil {
			return nil, fmt.Errorf("%w: scan profile: %v", domain.ErrStorageUnavailable, err)
		}
		l[domain.Identity(id)] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read profiles: %v", domain.ErrStorageUnavailable, err)
	}
	return l, nil
}

func (s *LedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM ledger_profiles"); err != nil {
		return fmt.Errorf("%w: clear profiles: %v", domain.ErrStorageUnavailable, err)
	}

	rows := make([][]any, 0, len(ledger))
	for id, p := range ledger {
		rows = append(rows, []any{int64(id), p.DisplayName, p.Balance})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"ledger_profiles"},
		[]string{"id", "username", "points"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("%w: copy profiles: %v", domain.ErrStorageUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *LedgerStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
