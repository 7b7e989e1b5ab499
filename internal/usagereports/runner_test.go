package usagereports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/esp"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/distlock"
)

type memoryArchiver struct{ reports []*UsageReport }

func (a *memoryArchiver) Archive(ctx context.Context, report *UsageReport) error {
	a.reports = append(a.reports, report)
	return nil
}

func TestRunnerRunOnce(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	sendDate := now.Add(-6 * time.Hour)
	provider := &fakeProvider{
		contacts: map[esp.ContactStatus][]esp.Contact{},
		campaigns: []esp.Campaign{
			{ID: "1", SendDate: &sendDate, Completed: true, SentCount: 100, UniqueOpens: 40, UniqueClicks: 5},
		},
	}
	agg := newTestAggregator(provider, now)

	archiver := &memoryArchiver{}
	lock := distlock.NewRedisLock(client, "usage-report", time.Minute)
	runner := NewRunner(agg, lock, archiver, time.Hour)

	report, err := runner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, report.EmailsSent)

	latest, ok := runner.Latest()
	require.True(t, ok)
	assert.Equal(t, report, latest)

	require.Len(t, archiver.reports, 1)
}

func TestRunnerSkipsWhenLockHeld(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	holder := distlock.NewRedisLock(client, "usage-report", time.Minute)
	ok, err := holder.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	provider := &fakeProvider{contacts: map[esp.ContactStatus][]esp.Contact{}}
	agg := newTestAggregator(provider, time.Now())
	runner := NewRunner(agg, distlock.NewRedisLock(client, "usage-report", time.Minute), nil, time.Hour)

	_, err = runner.RunOnce(ctx)
	assert.ErrorIs(t, err, ErrRunInProgress)

	_, hasLatest := runner.Latest()
	assert.False(t, hasLatest)
}
