package tracking

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
)

// reserved query parameters consumed by the handler itself; everything
// else is a candidate for pass-through.
var reservedParams = map[string]bool{
	QueryVar: true,
	"id":     true,
	"em":     true,
	"url":    true,
}

// Handler serves click-tracking redirects. Requests are stateless; the
// only persistent state is the per-newsletter click counter.
type Handler struct {
	meta store.NewsletterMeta
	bus  *Bus

	// allowedParams are extra query parameter names forwarded onto the
	// destination URL. utm_* parameters are always forwarded.
	allowedParams map[string]bool
}

// NewHandler creates a click-tracking handler.
func NewHandler(meta store.NewsletterMeta, bus *Bus, allowedParams []string) *Handler {
	allowed := make(map[string]bool, len(allowedParams))
	for _, name := range allowedParams {
		allowed[name] = true
	}
	return &Handler{meta: meta, bus: bus, allowedParams: allowed}
}

// Routes returns the tracking router. The legacy path and the
// query-parameter form resolve to the same handler.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(LegacyPath, h.HandleClick)
	r.Get("/", h.HandleClick)
	r.Get("/health", h.HandleHealth)
	return r
}

// HandleClick validates a proxied click, records it, and redirects to the
// destination. Requests without the tracking parameter are not tracking
// hits and fall through to a 404.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has(QueryVar) && r.URL.Path != LegacyPath {
		http.NotFound(w, r)
		return
	}

	newsletterID, _ := strconv.ParseInt(params.Get("id"), 10, 64)
	emailToken := sanitizeEmail(params.Get("em"))
	destination := sanitizeText(params.Get("url"))

	// Forward utm_* and allow-listed params so marketing attribution
	// survives the redirect hop. Keys are sorted for a stable result.
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if reservedParams[key] {
			continue
		}
		if strings.HasPrefix(key, "utm_") || h.allowedParams[key] {
			destination = addQueryArg(destination, key, sanitizeText(params.Get(key)))
		}
	}

	if destination == "" || !validRedirectURL(destination) {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	h.recordClick(r.Context(), newsletterID, emailToken, destination)

	http.Redirect(w, r, destination, http.StatusFound)
}

// recordClick increments the newsletter's click counter and publishes a
// click event. Missing identifiers skip recording silently: a broken
// counter must never break the reader's navigation.
func (h *Handler) recordClick(ctx context.Context, newsletterID int64, emailToken, destination string) {
	if newsletterID == 0 || emailToken == "" {
		return
	}

	count, err := h.meta.IncrementClicks(ctx, newsletterID)
	if err != nil {
		logger.Warn("failed to record click",
			"newsletter_id", strconv.FormatInt(newsletterID, 10), "error", err.Error())
		return
	}
	logger.Debug("click recorded",
		"newsletter_id", strconv.FormatInt(newsletterID, 10), "clicks", strconv.FormatInt(count, 10))

	h.bus.Publish(ClickEvent{
		ID:           uuid.New(),
		NewsletterID: newsletterID,
		Email:        emailToken,
		URL:          destination,
		Timestamp:    time.Now().UTC(),
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// sanitizeEmail returns a normalized email address, or "" if the value is
// not one.
func sanitizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailRegex.MatchString(email) {
		return ""
	}
	return email
}

// sanitizeText strips control characters and surrounding whitespace.
func sanitizeText(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}

// addQueryArg appends a query parameter (URL-encoded) to rawURL.
func addQueryArg(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// validRedirectURL reports whether rawURL is a well-formed absolute
// http(s) URL safe to redirect to.
func validRedirectURL(rawURL string) bool {
	if strings.ContainsAny(rawURL, " \t\n") {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
