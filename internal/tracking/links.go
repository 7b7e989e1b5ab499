// Package tracking implements newsletter click tracking: outbound links are
// rewritten into a tracking-proxy URL at render time, and inbound hits are
// validated, counted, and redirected to the real destination.
package tracking

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// QueryVar marks a request as a click-tracking hit.
	QueryVar = "np_newsletters_click"
	// LegacyPath is the old path-style tracking URL, kept for links in
	// already-sent newsletters.
	LegacyPath = "/np-newsletters-click"
)

// Rewriter builds tracking-proxy URLs for outbound newsletter links.
type Rewriter struct {
	enabled bool
	baseURL string
}

// NewRewriter creates a link rewriter. baseURL is the public root of the
// tracking endpoint, e.g. https://news.example.com.
func NewRewriter(enabled bool, baseURL string) *Rewriter {
	return &Rewriter{enabled: enabled, baseURL: strings.TrimRight(baseURL, "/")}
}

// ProxiedURL returns the tracking-proxy form of destURL for the given
// newsletter and recipient email token.
func (rw *Rewriter) ProxiedURL(newsletterID int64, emailToken, destURL string) string {
	q := url.Values{}
	q.Set(QueryVar, "1")
	q.Set("id", fmt.Sprintf("%d", newsletterID))
	q.Set("url", destURL)
	q.Set("em", emailToken)
	return rw.baseURL + "/?" + q.Encode()
}

// RewriteLink proxies a single destination URL. The URL passes through
// unchanged when tracking is disabled or no newsletter context is known.
func (rw *Rewriter) RewriteLink(destURL string, newsletterID int64, emailToken string) string {
	if !rw.enabled || newsletterID == 0 {
		return destURL
	}
	return rw.ProxiedURL(newsletterID, emailToken, destURL)
}

var hrefRegex = regexp.MustCompile(`href="(https?://[^"]+)"`)

// RewriteHTML proxies every absolute http(s) link in rendered newsletter
// HTML. Anchors, mailto: and relative links are left alone.
func (rw *Rewriter) RewriteHTML(html string, newsletterID int64, emailToken string) string {
	if !rw.enabled || newsletterID == 0 {
		return html
	}
	return hrefRegex.ReplaceAllStringFunc(html, func(match string) string {
		dest := match[len(`href="`) : len(match)-1]
		return `href="` + rw.ProxiedURL(newsletterID, emailToken, dest) + `"`
	})
}
