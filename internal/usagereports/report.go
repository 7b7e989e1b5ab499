// Package usagereports turns ESP contact and campaign listings into daily
// newsletter usage reports: subscribes and unsubscribes bucketed per day,
// plus emails-sent/opens/clicks deltas computed against a persisted
// cumulative baseline.
package usagereports

import "time"

// DayActivity holds one day's subscribe and unsubscribe counts.
type DayActivity struct {
	Subs   int `json:"subs"`
	Unsubs int `json:"unsubs"`
}

// DailyReport maps ISO dates (YYYY-MM-DD) to that day's activity.
type DailyReport map[string]*DayActivity

// CumulativeCounters are monotonically increasing totals as reported by
// the ESP. The API exposes no period-scoped send/open/click counts, so a
// snapshot is persisted after each run and the next run reports the delta.
type CumulativeCounters struct {
	EmailsSent int `json:"emails_sent"`
	Opens      int `json:"opens"`
	Clicks     int `json:"clicks"`
}

// UsageReport is the output of one report run: deltas and day counts for
// the most recently completed day.
type UsageReport struct {
	EmailsSent   int       `json:"emails_sent"`
	Opens        int       `json:"opens"`
	Clicks       int       `json:"clicks"`
	Subscribes   int       `json:"subscribes"`
	Unsubscribes int       `json:"unsubscribes"`
	Provider     string    `json:"provider"`
	GeneratedAt  time.Time `json:"generated_at"`
}
