package ports

import (
	"context"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

// AuditSink receives every applied adjustment after it has been persisted.
type AuditSink interface {
	Record(ctx context.Context, adj domain.Adjustment) error
}
