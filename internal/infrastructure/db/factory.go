package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/bountyboard/points-ledger/internal/core/ports"
	"github.com/bountyboard/points-ledger/internal/infrastructure/config"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db/file"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db/memory"
	mongostore "github.com/bountyboard/points-ledger/internal/infrastructure/db/mongo"
	pgstore "github.com/bountyboard/points-ledger/internal/infrastructure/db/postgres"
	redisstore "github.com/bountyboard/points-ledger/internal/infrastructure/db/redis"
)

// Resources connects backends on first use and shares one connection per
// backend between the ledger store, the audit sink and the dedup checker.
type Resources struct {
	cfg *config.Config
	log zerolog.Logger

	mu          sync.Mutex
	mongoClient *gomongo.Client
	mongoDB     *gomongo.Database
	redis       *goredis.Client
	pg          *pgxpool.Pool
	pingers     map[string]ports.Pinger
}

func NewResources(cfg *config.Config, log zerolog.Logger) *Resources {
	return &Resources{cfg: cfg, log: log, pingers: map[string]ports.Pinger{}}
}

// OpenStore returns the ledger store for driver wrapped with metrics.
func (r *Resources) OpenStore(ctx context.Context, driver string) (ports.LedgerStore, error) {
	var store ports.LedgerStore
	switch driver {
	case config.DriverFile:
		store = file.NewStore(r.cfg.Store.DataFile)
	case config.DriverMemory:
		store = memory.NewStore(nil)
	case config.DriverMongo:
		db, err := r.Mongo(ctx)
		if err != nil {
			return nil, err
		}
		store = mongostore.NewLedgerStore(db)
	case config.DriverRedis:
		client, err := r.Redis(ctx)
		if err != nil {
			return nil, err
		}
		store = redisstore.NewLedgerStore(client)
	case config.DriverPostgres:
		pool, err := r.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		store = pgstore.NewLedgerStore(pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	instrumented := Instrument(store, driver)
	r.mu.Lock()
	r.pingers["store"] = instrumented
	r.mu.Unlock()
	return instrumented, nil
}

// OpenAudit returns the audit sink for driver.
func (r *Resources) OpenAudit(ctx context.Context, driver string) (ports.AuditSink, error) {
	switch driver {
	case config.DriverLog:
		return NewLogAudit(r.log.With().Str("component", "audit").Logger()), nil
	case config.DriverMongo:
		db, err := r.Mongo(ctx)
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			r.log.Warn().Err(err).Msg("failed to ensure adjustment indexes")
		}
		return repo, nil
	case config.DriverRedis:
		client, err := r.Redis(ctx)
		if err != nil {
			return nil, err
		}
		return redisstore.NewAuditStream(client), nil
	case config.DriverPostgres:
		pool, err := r.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		return pgstore.NewAuditRepository(pool), nil
	default:
		return nil, fmt.Errorf("unknown audit driver %q", driver)
	}
}

// Dedup returns a webhook dedup checker, or nil when Redis is not configured.
func (r *Resources) Dedup(ctx context.Context) (*redisstore.DedupChecker, error) {
	if !r.cfg.RedisEnabled() {
		return nil, nil
	}
	client, err := r.Redis(ctx)
	if err != nil {
		return nil, err
	}
	return redisstore.NewDedupChecker(client), nil
}

func (r *Resources) Mongo(ctx context.Context) (*gomongo.Database, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mongoDB != nil {
		return r.mongoDB, nil
	}
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: r.cfg.Mongo.URI, Database: r.cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	r.mongoClient, r.mongoDB = client, db
	r.pingers["mongo"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
	r.log.Info().Str("database", r.cfg.Mongo.Database).Msg("connected to MongoDB")
	return db, nil
}

func (r *Resources) Redis(ctx context.Context) (*goredis.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.redis != nil {
		return r.redis, nil
	}
	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: r.cfg.Redis.Addr, DB: r.cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	r.redis = client
	r.pingers["redis"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	r.log.Info().Str("addr", r.cfg.Redis.Addr).Msg("connected to Redis")
	return client, nil
}

func (r *Resources) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pg != nil {
		return r.pg, nil
	}
	pool, err := pgstore.Connect(ctx, r.cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}
	r.pg = pool
	r.pingers["postgres"] = pingFunc(pool.Ping)
	r.log.Info().Msg("connected to PostgreSQL")
	return pool, nil
}

// Pingers returns the readiness checks of everything opened so far.
func (r *Resources) Pingers() map[string]ports.Pinger {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ports.Pinger, len(r.pingers))
	for k, v := range r.pingers {
		out[k] = v
	}
	return out
}

func (r *Resources) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mongoClient != nil {
		if err := r.mongoClient.Disconnect(ctx); err != nil {
			r.log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			r.log.Error().Err(err).Msg("failed to close Redis")
		}
	}
	if r.pg != nil {
		r.pg.Close()
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
