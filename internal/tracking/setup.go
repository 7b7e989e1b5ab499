package tracking

import (
	"context"
	"errors"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
)

const rewriteMarkerKey = "tracking_click_has_rewrite_rule"

// EnsureLegacyRouteMarker records, exactly once, that the legacy-path
// route mapping is in place. Downstream infrastructure (edge caches,
// redirect tables) watches this flag to avoid re-running its own setup on
// every boot.
func EnsureLegacyRouteMarker(ctx context.Context, kv store.KV) error {
	_, err := kv.Get(ctx, rewriteMarkerKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := kv.Set(ctx, rewriteMarkerKey, "1"); err != nil {
		return err
	}
	logger.Info("registered legacy click-tracking route", "path", LegacyPath)
	return nil
}
