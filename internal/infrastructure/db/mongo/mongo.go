package mongo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	backoffBase     = 250 * time.Millisecond
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// Attempts bounds how many times one setup sequence dials before giving up.
	Attempts uint64
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Store owns the lazily established connection. At most one setup sequence
// runs at a time; callers arriving while it runs wait for its outcome. A
// successful setup is cached for the life of the process, a failed one is
// not, so the next caller starts a fresh sequence.
type Store struct {
	dial    func(ctx context.Context) (*mongo.Client, *mongo.Database, error)
	init    func(ctx context.Context, db *mongo.Database) error
	backoff func() retry.Backoff
	log     zerolog.Logger

	group  singleflight.Group
	client atomic.Pointer[mongo.Client]
	db     atomic.Pointer[mongo.Database]
}

// NewStore returns a Store that connects on first use and creates the
// collection indexes as part of setup.
func NewStore(cfg Config, log zerolog.Logger) *Store {
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	return &Store{
		dial: func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
			return Connect(ctx, cfg)
		},
		init: EnsureIndexes,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(attempts-1, retry.NewExponential(backoffBase))
		},
		log: log,
	}
}

// Database returns the connected database, running the setup sequence if no
// connection exists yet. Setup failures are reported as
// domain.ErrStoreUnavailable.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	if db := s.db.Load(); db != nil {
		return db, nil
	}

	// The setup outlives any single caller, so it must not inherit the
	// first caller's cancellation.
	setupCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("connect", func() (any, error) {
		if db := s.db.Load(); db != nil {
			return db, nil
		}
		return s.connect(setupCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Database), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, ctx.Err())
	}
}

func (s *Store) connect(ctx context.Context) (*mongo.Database, error) {
	var (
		client  *mongo.Client
		db      *mongo.Database
		attempt int
	)

	s.log.Info().Msg("connecting to mongodb")
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		c, d, err := s.dial(ctx)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("mongodb connect attempt failed")
			return retry.RetryableError(err)
		}
		if err := s.init(ctx, d); err != nil {
			if c != nil {
				_ = c.Disconnect(ctx)
			}
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("mongodb setup failed")
			return retry.RetryableError(err)
		}
		client, db = c, d
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int("attempts", attempt).Msg("mongodb unavailable")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.client.Store(client)
	s.db.Store(db)
	s.log.Info().Str("database", db.Name()).Msg("mongodb connected")
	return db, nil
}

// Ping verifies the connection, establishing it first if needed.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.Database(ctx)
	if err != nil {
		return err
	}
	if err := db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close disconnects the client if a connection was ever established.
func (s *Store) Close(ctx context.Context) error {
	client := s.client.Load()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// withTimeout bounds a single store operation.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}

// unavailable tags a driver error as an infrastructure failure.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
