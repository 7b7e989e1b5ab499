package activecampaign

import (
	"strconv"
	"time"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/esp"
)

// ActiveCampaign status codes. Contacts: 1 = subscribed, 2 = unsubscribed.
// Campaigns: 5 = completed (sent).
const (
	contactStatusSubscribed   = "1"
	contactStatusUnsubscribed = "2"
	campaignStatusCompleted   = "5"
)

// The API reports most numeric fields as strings.

type apiMeta struct {
	Total string `json:"total"`
}

type apiContact struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	CDate string `json:"cdate"`
	UDate string `json:"udate"`
}

type contactListResponse struct {
	Contacts []apiContact `json:"contacts"`
	Meta     apiMeta      `json:"meta"`
}

type apiCampaign struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	SDate            string `json:"sdate"`
	SendAmt          string `json:"send_amt"`
	UniqueOpens      string `json:"uniqueopens"`
	UniqueLinkClicks string `json:"uniquelinkclicks"`
}

type campaignListResponse struct {
	Campaigns []apiCampaign `json:"campaigns"`
	Meta      apiMeta       `json:"meta"`
}

func statusCode(s esp.ContactStatus) string {
	if s == esp.StatusUnsubscribed {
		return contactStatusUnsubscribed
	}
	return contactStatusSubscribed
}

func parseCount(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseDate accepts the ISO-8601 timestamps the API emits. A zero time is
// returned for empty or malformed values.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c apiContact) toContact(status esp.ContactStatus) esp.Contact {
	return esp.Contact{
		ID:        c.ID,
		Email:     c.Email,
		CreatedAt: parseDate(c.CDate),
		UpdatedAt: parseDate(c.UDate),
		Status:    status,
	}
}

func (c apiCampaign) toCampaign() esp.Campaign {
	out := esp.Campaign{
		ID:           c.ID,
		Completed:    c.Status == campaignStatusCompleted,
		SentCount:    parseCount(c.SendAmt),
		UniqueOpens:  parseCount(c.UniqueOpens),
		UniqueClicks: parseCount(c.UniqueLinkClicks),
	}
	if sent := parseDate(c.SDate); !sent.IsZero() {
		out.SendDate = &sent
	}
	return out
}
