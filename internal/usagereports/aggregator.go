package usagereports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/esp"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
)

const (
	// pageSize is the fixed contact listing page size.
	pageSize = 100
	// maxPages bounds pagination in case the API misreports its total.
	maxPages = 1000
	// campaignFetchLimit caps the campaign listing; reports cover a one-day
	// window, which never spans more than 100 campaigns in practice.
	campaignFetchLimit = 100
	// reportWindowDays scopes every usage report to the most recently
	// completed day.
	reportWindowDays = 1
)

// Aggregator builds usage reports from an ESP provider. Fetch errors
// propagate verbatim to the caller; there are no retries and no partial
// reports at this level.
type Aggregator struct {
	provider  esp.Provider
	baselines *BaselineStore
	now       func() time.Time
}

// NewAggregator creates an aggregator for the given provider.
func NewAggregator(provider esp.Provider, baselines *BaselineStore) *Aggregator {
	return &Aggregator{
		provider:  provider,
		baselines: baselines,
		now:       time.Now,
	}
}

// fetchAllContacts pages through the provider's contact listing until the
// accumulated count reaches the API-reported total. Any page failure aborts
// the whole fetch.
func (a *Aggregator) fetchAllContacts(ctx context.Context, status esp.ContactStatus, createdAfter *time.Time) ([]esp.Contact, error) {
	var contacts []esp.Contact
	for page := 0; page < maxPages; page++ {
		result, err := a.provider.ListContacts(ctx, esp.ContactQuery{
			Status:       status,
			CreatedAfter: createdAfter,
			Offset:       len(contacts),
			Limit:        pageSize,
		})
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, result.Contacts...)
		logger.Debug("fetched contacts page",
			"status", string(status), "fetched", len(contacts), "total", result.Total)
		if len(contacts) >= result.Total || len(result.Contacts) == 0 {
			return contacts, nil
		}
	}
	return nil, fmt.Errorf("contact pagination did not terminate after %d pages (status %s)", maxPages, status)
}

type bucketKind int

const (
	bucketSubs bucketKind = iota
	bucketUnsubs
)

// bucketByDate increments per-day counts for every contact whose relevant
// date falls inside the trailing window. The reduction is commutative, so
// input order never affects the result.
func bucketByDate(report DailyReport, contacts []esp.Contact, dateOf func(esp.Contact) time.Time, bucket bucketKind, windowDays int, now time.Time) DailyReport {
	cutoff := now.AddDate(0, 0, -windowDays)
	for _, contact := range contacts {
		date := dateOf(contact)
		if date.IsZero() || date.Before(cutoff) {
			continue
		}
		key := date.UTC().Format("2006-01-02")
		day := report[key]
		if day == nil {
			day = &DayActivity{}
			report[key] = day
		}
		switch bucket {
		case bucketSubs:
			day.Subs++
		case bucketUnsubs:
			day.Unsubs++
		}
	}
	return report
}

// contactsData builds the daily subscribe/unsubscribe report for the
// trailing window.
//
// Subscribed contacts are filtered server-side by creation date, so only
// recent records transfer. Unsubscribed contacts must ALL be fetched — the
// API cannot filter on unsubscribe date — and the window cutoff is applied
// during bucketing instead. The asymmetry trades a larger fetch for
// correctness.
func (a *Aggregator) contactsData(ctx context.Context, windowDays int) (DailyReport, error) {
	report := DailyReport{}
	cutoff := a.now().AddDate(0, 0, -windowDays)

	subscribed, err := a.fetchAllContacts(ctx, esp.StatusSubscribed, &cutoff)
	if err != nil {
		return nil, err
	}
	report = bucketByDate(report, subscribed,
		func(c esp.Contact) time.Time { return c.CreatedAt }, bucketSubs, windowDays, a.now())

	unsubscribed, err := a.fetchAllContacts(ctx, esp.StatusUnsubscribed, nil)
	if err != nil {
		return nil, err
	}
	report = bucketByDate(report, unsubscribed,
		func(c esp.Contact) time.Time { return c.UpdatedAt }, bucketUnsubs, windowDays, a.now())

	return report, nil
}

// campaignData accumulates sent/open/click totals from completed campaigns
// inside the trailing window.
//
// The listing is sorted client-side by send date descending before the
// cutoff early-break, so an unsorted API response cannot silently
// under-count.
func (a *Aggregator) campaignData(ctx context.Context, windowDays int) (CumulativeCounters, error) {
	var counters CumulativeCounters

	campaigns, err := a.provider.ListCampaigns(ctx, campaignFetchLimit)
	if err != nil {
		return counters, err
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		di, dj := campaigns[i].SendDate, campaigns[j].SendDate
		// Unsent campaigns sort first; the loop skips them without breaking.
		if di == nil {
			return dj != nil
		}
		if dj == nil {
			return false
		}
		return di.After(*dj)
	})

	cutoff := a.now().AddDate(0, 0, -windowDays)
	for _, campaign := range campaigns {
		if campaign.SendDate == nil || !campaign.Completed {
			continue
		}
		// Descending order makes everything past the first too-old
		// campaign older still.
		if campaign.SendDate.Before(cutoff) {
			break
		}
		counters.EmailsSent += campaign.SentCount
		counters.Opens += campaign.UniqueOpens
		counters.Clicks += campaign.UniqueClicks
	}
	return counters, nil
}

// GetUsageReport produces the report for the most recently completed day.
// The freshly fetched cumulative counters always replace the persisted
// baseline, even when a counter went backwards.
func (a *Aggregator) GetUsageReport(ctx context.Context) (*UsageReport, error) {
	contactsData, err := a.contactsData(ctx, reportWindowDays)
	if err != nil {
		return nil, err
	}

	campaignData, err := a.campaignData(ctx, reportWindowDays)
	if err != nil {
		return nil, err
	}

	baseline, err := a.baselines.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		Provider:    a.provider.Name(),
		GeneratedAt: a.now().UTC(),
	}
	report.EmailsSent = a.delta("emails_sent", campaignData.EmailsSent, baseline.EmailsSent)
	report.Opens = a.delta("opens", campaignData.Opens, baseline.Opens)
	report.Clicks = a.delta("clicks", campaignData.Clicks, baseline.Clicks)

	if err := a.baselines.Save(ctx, campaignData, baseline.Version+1); err != nil {
		return nil, err
	}

	yesterday := a.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if day, ok := contactsData[yesterday]; ok {
		report.Subscribes = day.Subs
		report.Unsubscribes = day.Unsubs
	}

	return report, nil
}

// delta computes current - previous, clamped at zero. ESP counters are
// monotonic in normal operation; a decrease means upstream data was purged
// or reset, and a negative "activity" number would only mislead.
func (a *Aggregator) delta(metric string, current, previous int) int {
	d := current - previous
	if d < 0 {
		logger.Warn("cumulative counter decreased; clamping delta to zero",
			"metric", metric, "current", current, "baseline", previous)
		return 0
	}
	return d
}
