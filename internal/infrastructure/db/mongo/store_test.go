package mongo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/goleak"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

func newTestStore(dial func(ctx context.Context) (*mongo.Client, *mongo.Database, error), retries uint64) *Store {
	return &Store{
		dial: dial,
		init: func(context.Context, *mongo.Database) error { return nil },
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(retries, retry.NewConstant(time.Millisecond))
		},
		log: zerolog.Nop(),
	}
}

func TestStoreDatabaseConnectsOnce(t *testing.T) {
	var dials atomic.Int32
	release := make(chan struct{})
	db := &mongo.Database{}

	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		dials.Add(1)
		<-release
		return nil, db, nil
	}, 0)

	const callers = 20
	var wg sync.WaitGroup
	results := make([]*mongo.Database, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Database(context.Background())
		}(i)
	}

	// Give every caller a chance to join the in-flight setup.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, db, results[i])
	}
	assert.Equal(t, int32(1), dials.Load())

	got, err := store.Database(context.Background())
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, int32(1), dials.Load(), "cached database must not redial")
}

func TestStoreDatabaseFailureIsNotCached(t *testing.T) {
	var dials atomic.Int32
	db := &mongo.Database{}
	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		if dials.Add(1) == 1 {
			return nil, nil, errors.New("connection refused")
		}
		return nil, db, nil
	}, 0)

	_, err := store.Database(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	got, err := store.Database(context.Background())
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, int32(2), dials.Load())
}

func TestStoreDatabaseRetriesWithinSetup(t *testing.T) {
	var dials atomic.Int32
	db := &mongo.Database{}
	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		if dials.Add(1) < 3 {
			return nil, nil, errors.New("server selection timeout")
		}
		return nil, db, nil
	}, 2)

	got, err := store.Database(context.Background())
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, int32(3), dials.Load())
}

func TestStoreDatabaseGivesUpAfterBoundedAttempts(t *testing.T) {
	var dials atomic.Int32
	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		dials.Add(1)
		return nil, nil, errors.New("no reachable servers")
	}, 2)

	_, err := store.Database(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, int32(3), dials.Load())
}

func TestStoreDatabaseInitFailure(t *testing.T) {
	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		return nil, &mongo.Database{}, nil
	}, 0)
	store.init = func(context.Context, *mongo.Database) error {
		return errors.New("index build failed")
	}

	_, err := store.Database(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStoreDatabaseWaiterHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	store := newTestStore(func(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
		<-release
		return nil, nil, errors.New("too late")
	}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := store.Database(ctx)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned setup must still run to completion.
	close(release)
}

func TestStoreCloseWithoutConnection(t *testing.T) {
	store := NewStore(Config{URI: "mongodb://127.0.0.1:1", Database: "campus_event"}, zerolog.Nop())
	assert.NoError(t, store.Close(context.Background()))
}
