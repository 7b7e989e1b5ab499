package usagereports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
)

const baselineKey = "usage_report_baseline"

// Baseline is the persisted cumulative-counter snapshot from the previous
// report run. Version increases by one per run; together with the
// distributed lock around report generation it makes interleaved writers
// detectable in the stored record.
type Baseline struct {
	CumulativeCounters
	Version   int64     `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
}

// BaselineStore persists the baseline in the key-value store.
type BaselineStore struct {
	kv store.KV
}

// NewBaselineStore creates a baseline store on the given KV backend.
func NewBaselineStore(kv store.KV) *BaselineStore {
	return &BaselineStore{kv: kv}
}

// Load returns the persisted baseline. A missing baseline is not an
// error: the zero value (all counters zero, version zero) is returned so
// the first run reports the full cumulative totals.
func (s *BaselineStore) Load(ctx context.Context) (Baseline, error) {
	var baseline Baseline

	raw, err := s.kv.Get(ctx, baselineKey)
	if errors.Is(err, store.ErrNotFound) {
		return baseline, nil
	}
	if err != nil {
		return baseline, fmt.Errorf("load baseline: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &baseline); err != nil {
		return Baseline{}, fmt.Errorf("decode baseline: %w", err)
	}
	return baseline, nil
}

// Save overwrites the baseline with freshly fetched counters.
func (s *BaselineStore) Save(ctx context.Context, counters CumulativeCounters, version int64) error {
	baseline := Baseline{
		CumulativeCounters: counters,
		Version:            version,
		FetchedAt:          time.Now().UTC(),
	}
	raw, err := json.Marshal(baseline)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := s.kv.Set(ctx, baselineKey, string(raw)); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}
