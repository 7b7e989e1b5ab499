package tracking

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLinkDisabled(t *testing.T) {
	rw := NewRewriter(false, "https://news.example.com")
	assert.Equal(t, "https://dest.example.com/story",
		rw.RewriteLink("https://dest.example.com/story", 42, "reader@example.com"))
}

func TestRewriteLinkNoNewsletterContext(t *testing.T) {
	rw := NewRewriter(true, "https://news.example.com")
	assert.Equal(t, "https://dest.example.com/story",
		rw.RewriteLink("https://dest.example.com/story", 0, "reader@example.com"))
}

func TestRewriteLinkEnabled(t *testing.T) {
	rw := NewRewriter(true, "https://news.example.com")

	proxied := rw.RewriteLink("https://dest.example.com/story?a=1", 42, "reader@example.com")
	require.True(t, strings.HasPrefix(proxied, "https://news.example.com/?"))

	u, err := url.Parse(proxied)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get(QueryVar))
	assert.Equal(t, "42", q.Get("id"))
	assert.Equal(t, "https://dest.example.com/story?a=1", q.Get("url"))
	assert.Equal(t, "reader@example.com", q.Get("em"))

	// The raw query must carry the destination URL-encoded.
	assert.Contains(t, u.RawQuery, "url=https%3A%2F%2Fdest.example.com")
}

func TestRewriteHTML(t *testing.T) {
	rw := NewRewriter(true, "https://news.example.com")

	html := `<p><a href="https://dest.example.com/a">one</a>` +
		`<a href="mailto:tips@example.com">write in</a>` +
		`<a href="#top">top</a></p>`

	out := rw.RewriteHTML(html, 7, "reader@example.com")

	assert.NotContains(t, out, `href="https://dest.example.com/a"`)
	assert.Contains(t, out, "https://news.example.com/?")
	// mailto and fragment links are untouched
	assert.Contains(t, out, `href="mailto:tips@example.com"`)
	assert.Contains(t, out, `href="#top"`)
}

func TestRewriteHTMLDisabled(t *testing.T) {
	rw := NewRewriter(false, "https://news.example.com")
	html := `<a href="https://dest.example.com/a">one</a>`
	assert.Equal(t, html, rw.RewriteHTML(html, 7, "reader@example.com"))
}
