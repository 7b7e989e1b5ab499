// Package esp defines the provider-neutral contract for Email Service
// Provider APIs. Usage-report aggregation is written against these
// interfaces; each provider package (ActiveCampaign today) adapts its
// proprietary REST API to them.
package esp

import (
	"context"
	"time"
)

// ContactStatus is a provider-neutral contact subscription status.
type ContactStatus string

const (
	StatusSubscribed   ContactStatus = "subscribed"
	StatusUnsubscribed ContactStatus = "unsubscribed"
)

// Contact is the read-only projection of an ESP contact. Only identity
// and the created/updated timestamps are used by reporting.
type Contact struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    ContactStatus
}

// Campaign is the read-only projection of a sent ESP campaign.
// SendDate is nil for campaigns that were never sent.
type Campaign struct {
	ID           string
	SendDate     *time.Time
	Completed    bool
	SentCount    int
	UniqueOpens  int
	UniqueClicks int
}

// ContactQuery controls a paginated contact listing request.
// Offset/Limit follow the uniform ESP pagination contract: the response
// carries the total count and the caller pages until it has them all.
type ContactQuery struct {
	Status ContactStatus
	// CreatedAfter filters server-side on creation date when non-nil.
	// Providers have no equivalent filter for unsubscribe date.
	CreatedAfter *time.Time
	Offset       int
	Limit        int
}

// ContactPage is one page of a contact listing plus the API-reported total.
type ContactPage struct {
	Total    int
	Contacts []Contact
}

// ContactSource lists contacts page by page.
type ContactSource interface {
	ListContacts(ctx context.Context, q ContactQuery) (*ContactPage, error)
}

// CampaignSource lists campaigns, most recently sent first.
type CampaignSource interface {
	ListCampaigns(ctx context.Context, limit int) ([]Campaign, error)
}

// Provider is a full ESP integration capable of backing usage reports.
type Provider interface {
	Name() string
	ContactSource
	CampaignSource
}
