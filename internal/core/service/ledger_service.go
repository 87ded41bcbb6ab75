package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

const DefaultLeaderboardLimit = 10

// Options tunes LedgerService behaviour per deployment.
type Options struct {
	Policy domain.BalancePolicy
	// LeaderboardLimit is used when a caller passes limit <= 0.
	LeaderboardLimit int
	// Now is the clock used for audit timestamps. Defaults to time.Now.
	Now func() time.Time
}

// LedgerService implements balance queries, adjustments and ranking.
//
// Every load-mutate-save cycle runs under mu's write lock. Reads hold the
// read lock across their load so they never observe a save in progress.
type LedgerService struct {
	mu    sync.RWMutex
	store ports.LedgerStore
	gate  ports.Gate
	audit ports.AuditSink
	opts  Options
	log   zerolog.Logger
}

// NewLedgerService wires the service. audit may be nil.
func NewLedgerService(store ports.LedgerStore, gate ports.Gate, audit ports.AuditSink, opts Options, log zerolog.Logger) *LedgerService {
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = DefaultLeaderboardLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &LedgerService{
		store: store,
		gate:  gate,
		audit: audit,
		opts:  opts,
		log:   log,
	}
}

// GetBalance returns the actor's own profile, creating it on first sight.
func (s *LedgerService) GetBalance(ctx context.Context, actor domain.Actor) (*ports.BalanceResult, error) {
	s.mu.RLock()
	ledger, err := s.load(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	if p, ok := ledger[actor.ID]; ok {
		return &ports.BalanceResult{Identity: actor.ID, DisplayName: p.DisplayName, Balance: p.Balance}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reload under the write lock: a concurrent call may have created it.
	ledger, err = s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	p, created := ResolveOrCreate(ledger, actor.ID, actor.FallbackName)
	if created {
		if err := s.save(ctx, ledger); err != nil {
			return nil, fmt.Errorf("get balance: %w", err)
		}
		s.log.Info().Stringer("identity", actor.ID).Str("display_name", p.DisplayName).Msg("profile created")
	}

	return &ports.BalanceResult{
		Identity:    actor.ID,
		DisplayName: p.DisplayName,
		Balance:     p.Balance,
		Created:     created,
	}, nil
}

// AdjustBalance applies a signed amount to the profile named by in.Target.
// Checks run in order: authorization, amount, target resolution. The store
// is not touched unless the actor is privileged and the amount is valid.
func (s *LedgerService) AdjustBalance(ctx context.Context, in ports.AdjustInput) (*ports.AdjustResult, error) {
	if !s.gate.IsPrivileged(in.Actor) {
		s.log.Warn().Stringer("actor", in.Actor).Str("target", in.Target).Msg("adjustment rejected: not privileged")
		return nil, domain.ErrNotAuthorized
	}

	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	delta := amount
	if in.Direction == domain.Debit {
		delta = -amount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("adjust balance: %w", err)
	}

	target, ok := FindByToken(ledger, in.Target)
	if !ok {
		return nil, fmt.Errorf("adjust balance: %w: %q", domain.ErrIdentityNotFound, in.Target)
	}
	if m := Matches(ledger, in.Target); len(m) > 1 {
		s.log.Warn().Str("target", in.Target).Int("candidates", len(m)).Stringer("picked", target).
			Msg("ambiguous display name, target picked arbitrarily")
	}

	p := ledger[target]
	previous := p.Balance
	next, err := s.opts.Policy.Apply(p.Balance, delta)
	if err != nil {
		s.log.Warn().Stringer("target", target).Int64("balance", p.Balance).Int64("delta", delta).
			Msg("adjustment rejected: balance out of range")
		return nil, err
	}
	p.Balance = next
	ledger[target] = p

	// The mutated ledger is local to this call, so a failed save leaves no
	// trace of the adjustment.
	if err := s.save(ctx, ledger); err != nil {
		return nil, fmt.Errorf("adjust balance: %w", err)
	}

	adj := domain.Adjustment{
		ID:          uuid.NewString(),
		Actor:       in.Actor,
		Target:      target,
		DisplayName: p.DisplayName,
		Delta:       p.Balance - previous,
		Balance:     p.Balance,
		At:          s.opts.Now().UTC(),
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, adj); err != nil {
			s.log.Warn().Err(err).Str("adjustment_id", adj.ID).Msg("failed to record audit entry")
		}
	}

	s.log.Info().
		Stringer("actor", in.Actor).
		Stringer("target", target).
		Int64("delta", delta).
		Int64("balance", p.Balance).
		Msg("balance adjusted")

	return &ports.AdjustResult{
		Identity:    target,
		DisplayName: p.DisplayName,
		Delta:       delta,
		Applied:     adj.Delta,
		Balance:     p.Balance,
	}, nil
}

// Leaderboard ranks profiles by balance, highest first. Equal balances are
// ordered by ascending identity so repeated calls agree.
func (s *LedgerService) Leaderboard(ctx context.Context, limit int) ([]domain.RankedEntry, error) {
	if limit <= 0 {
		limit = s.opts.LeaderboardLimit
	}

	s.mu.RLock()
	ledger, err := s.load(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return Rank(ledger, limit), nil
}

// Snapshot returns a copy of the current ledger.
func (s *LedgerService) Snapshot(ctx context.Context) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return ledger.Clone(), nil
}

// Rank sorts l by balance descending then identity ascending and keeps the
// first limit entries.
func Rank(l domain.Ledger, limit int) []domain.RankedEntry {
	entries := make([]domain.RankedEntry, 0, len(l))
	for id, p := range l {
		entries = append(entries, domain.RankedEntry{Identity: id, DisplayName: p.DisplayName, Balance: p.Balance})
	}
	slices.SortFunc(entries, func(a, b domain.RankedEntry) int {
		if c := cmp.Compare(b.Balance, a.Balance); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity, b.Identity)
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (s *LedgerService) load(ctx context.Context) (domain.Ledger, error) {
	var ledger domain.Ledger
	err := s.retryOnce(ctx, "load", func() error {
		var err error
		ledger, err = s.store.Load(ctx)
		return err
	})
	if ledger == nil && err == nil {
		ledger = domain.Ledger{}
	}
	return ledger, err
}

func (s *LedgerService) save(ctx context.Context, ledger domain.Ledger) error {
	return s.retryOnce(ctx, "save", func() error {
		return s.store.Save(ctx, ledger)
	})
}

// retryOnce runs fn and, on a storage failure, runs it exactly once more.
// Any store error is reported as domain.ErrStorageUnavailable.
func (s *LedgerService) retryOnce(ctx context.Context, op string, fn func() error) error {
	err := asStorageError(fn())
	if err == nil || ctx.Err() != nil {
		return err
	}
	s.log.Warn().Err(err).Str("op", op).Msg("storage unavailable, retrying once")
	return asStorageError(fn())
}

func asStorageError(err error) error {
	if err == nil || errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
