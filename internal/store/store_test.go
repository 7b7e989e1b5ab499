package store

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKV(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedisKV(client)
	ctx := context.Background()

	_, err = kv.Get(ctx, "last_report")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "last_report", `{"emails_sent":10}`))

	val, err := kv.Get(ctx, "last_report")
	require.NoError(t, err)
	assert.Equal(t, `{"emails_sent":10}`, val)

	// Overwrite
	require.NoError(t, kv.Set(ctx, "last_report", `{"emails_sent":12}`))
	val, err = kv.Get(ctx, "last_report")
	require.NoError(t, err)
	assert.Equal(t, `{"emails_sent":12}`, val)
}

func TestPostgresMetaIncrementClicks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO newsletter_meta`).
		WithArgs(int64(42), "tracking_clicks").
		WillReturnRows(sqlmock.NewRows([]string{"meta_value"}).AddRow(int64(7)))

	meta := NewPostgresMeta(db)
	count, err := meta.IncrementClicks(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMetaGetClicksMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT meta_value FROM newsletter_meta`).
		WithArgs(int64(42), "tracking_clicks").
		WillReturnRows(sqlmock.NewRows([]string{"meta_value"}))

	meta := NewPostgresMeta(db)
	count, err := meta.GetClicks(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMemoryMetaConcurrentIncrements(t *testing.T) {
	meta := NewMemoryMeta()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = meta.IncrementClicks(ctx, 1)
		}()
	}
	wg.Wait()

	// N concurrent clicks count exactly N with the atomic increment.
	count, err := meta.GetClicks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "flag")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "flag", "1"))
	val, err := kv.Get(ctx, "flag")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}
