// Package wiki fetches short article summaries from a MediaWiki site.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultBaseURL = "https://en.wikipedia.org"

var ErrNotFound = errors.New("wiki: no article found")

type Client struct {
	http *http.Client
	base string
}

func New(client *http.Client, base string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{http: client, base: strings.TrimRight(base, "/")}
}

type extractsResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Summarize returns the first sentences of the article best matching
// topic, together with that article's title. An exact title is tried
// first, then the top full-text search hit.
func (c *Client) Summarize(ctx context.Context, topic string, sentences int) (title, summary string, err error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", "", ErrNotFound
	}
	if sentences <= 0 {
		sentences = 2
	}

	exact := url.Values{}
	exact.Set("titles", topic)
	exact.Set("redirects", "1")
	if title, summary, err = c.extract(ctx, exact, sentences); err == nil || !errors.Is(err, ErrNotFound) {
		return title, summary, err
	}

	search := url.Values{}
	search.Set("generator", "search")
	search.Set("gsrsearch", topic)
	search.Set("gsrlimit", "1")
	if title, summary, err = c.extract(ctx, search, sentences); err != nil {
		return "", "", fmt.Errorf("%w: %q", err, topic)
	}
	return title, summary, nil
}

// extract runs a prop=extracts query over the pages q selects and returns
// the first page that has text.
func (c *Client) extract(ctx context.Context, q url.Values, sentences int) (string, string, error) {
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("prop", "extracts")
	q.Set("explaintext", "1")
	q.Set("exsentences", strconv.Itoa(sentences))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/w/api.php?"+q.Encode(), nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "voxa/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("query wiki: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("query wiki: unexpected status %d", resp.StatusCode)
	}

	var out extractsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("decode wiki: %w", err)
	}

	for _, p := range out.Query.Pages {
		if p.Missing {
			continue
		}
		if text := strings.TrimSpace(p.Extract); text != "" {
			return p.Title, text, nil
		}
	}
	return "", "", ErrNotFound
}

// ArticleURL is the page a reader would open for a resolved title.
func (c *Client) ArticleURL(title string) string {
	title = strings.Join(strings.Fields(title), "_")
	if r, n := utf8.DecodeRuneInString(title); n > 0 {
		title = string(unicode.ToUpper(r)) + title[n:]
	}
	return c.base + "/wiki/" + url.PathEscape(title)
}
