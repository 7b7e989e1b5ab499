package usagereports

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/distlock"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
)

// ErrRunInProgress is returned when another process holds the report lock.
var ErrRunInProgress = errors.New("usage report run already in progress")

// Runner periodically generates usage reports, serialized across processes
// by a distributed lock. Overlapping runs would interleave baseline reads
// and writes and corrupt the delta computation.
type Runner struct {
	aggregator *Aggregator
	lock       distlock.DistLock
	archiver   Archiver
	interval   time.Duration

	mu     sync.RWMutex
	latest *UsageReport
}

// NewRunner creates a report runner. archiver may be nil.
func NewRunner(aggregator *Aggregator, lock distlock.DistLock, archiver Archiver, interval time.Duration) *Runner {
	return &Runner{
		aggregator: aggregator,
		lock:       lock,
		archiver:   archiver,
		interval:   interval,
	}
}

// Start runs the collection loop until the context is canceled. The first
// run happens immediately.
func (r *Runner) Start(ctx context.Context) {
	logger.Info("usage report runner started", "interval", r.interval.String())

	if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
		logger.Error("usage report run failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("usage report runner stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
				logger.Error("usage report run failed", "error", err.Error())
			}
		}
	}
}

// RunOnce generates a single usage report under the distributed lock.
// Returns ErrRunInProgress when another process holds the lock.
func (r *Runner) RunOnce(ctx context.Context) (*UsageReport, error) {
	acquired, err := r.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := r.lock.Release(ctx); err != nil {
			logger.Warn("failed to release report lock", "error", err.Error())
		}
	}()

	report, err := r.aggregator.GetUsageReport(ctx)
	if err != nil {
		return nil, err
	}

	// Archival is best-effort; the report itself already succeeded.
	if r.archiver != nil {
		if err := r.archiver.Archive(ctx, report); err != nil {
			logger.Warn("failed to archive usage report", "error", err.Error())
		}
	}

	r.mu.Lock()
	r.latest = report
	r.mu.Unlock()

	logger.Info("usage report generated",
		"provider", report.Provider,
		"emails_sent", report.EmailsSent,
		"opens", report.Opens,
		"clicks", report.Clicks,
		"subscribes", report.Subscribes,
		"unsubscribes", report.Unsubscribes)

	return report, nil
}

// Latest returns the most recently generated report, if any.
func (r *Runner) Latest() (*UsageReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil, false
	}
	return r.latest, true
}
