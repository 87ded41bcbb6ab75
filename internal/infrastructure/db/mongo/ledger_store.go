package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bountyboard/points-ledger/internal/core/domain"
)

const (
	profilesCollection = "profiles"
	stagingCollection  = "profiles_staging"
)

type profileDoc struct {
	ID          string `bson:"_id"`
	DisplayName string `bson:"username"`
	Balance     int64  `bson:"points"`
}

// LedgerStore keeps one document per profile. Save rebuilds the whole set in
// a staging collection and renames it over the live one, so readers see
// either the old or the new ledger.
type LedgerStore struct {
	db *mongo.Database
}

func NewLedgerStore(db *mongo.Database) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	cur, err := s.db.Collection(profilesCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find: %v", domain.ErrStorageUnavailable, err)
	}
	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: mongo decode: %v", domain.ErrStorageUnavailable, err)
	}

	l := make(domain.Ledger, len(docs))
	for _, d := range docs {
		id, ok := domain.ParseIdentity(d.ID)
		if !ok {
			return nil, fmt.Errorf("%w: invalid identity key %q", domain.ErrStorageUnavailable, d.ID)
		}
		l[id] = domain.Profile{DisplayName: d.DisplayName, Balance: d.Balance}
	}
	return l, nil
}

func (s *LedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	if len(ledger) == 0 {
		if err := s.db.Collection(profilesCollection).Drop(ctx); err != nil {
			return fmt.Errorf("%w: mongo drop: %v", domain.ErrStorageUnavailable, err)
		}
		return nil
	}

	staging := s.db.Collection(stagingCollection)
	if err := staging.Drop(ctx); err != nil {
		return fmt.Errorf("%w: mongo drop staging: %v", domain.ErrStorageUnavailable, err)
	}

	docs := make([]any, 0, len(ledger))
	for id, p := range ledger {
		docs = append(docs, profileDoc{ID: id.String(), DisplayName: p.DisplayName, Balance: p.Balance})
	}
	if _, err := staging.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: mongo insert staging: %v", domain.ErrStorageUnavailable, err)
	}

	name := s.db.Name()
	cmd := bson.D{
		{Key: "renameCollection", Value: name + "." + stagingCollection},
		{Key: "to", Value: name + "." + profilesCollection},
		{Key: "dropTarget", Value: true},
	}
	if err := s.db.Client().Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("%w: mongo rename: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *LedgerStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
