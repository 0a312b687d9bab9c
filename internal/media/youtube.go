package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultYouTubeURL = "https://www.youtube.com"

var ErrNoVideo = errors.New("media: no video found")

// The results page is mostly rendered by script; the ids are still present
// in the embedded initial data.
var videoIDPattern = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)

// YouTube resolves a free-text query to the first matching video.
type YouTube struct {
	client *http.Client
	base   string
}

func NewYouTube(client *http.Client, base string) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	if base == "" {
		base = DefaultYouTubeURL
	}
	return &YouTube{client: client, base: strings.TrimRight(base, "/")}
}

func (y *YouTube) ResultsURL(query string) string {
	return y.base + "/results?search_query=" + url.QueryEscape(query)
}

func (y *YouTube) WatchURL(id string) string {
	return y.base + "/watch?v=" + id
}

// FirstVideo returns the watch URL of the top result for query.
func (y *YouTube) FirstVideo(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.ResultsURL(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search youtube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search youtube: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read results: %w", err)
	}

	id, err := firstVideoID(string(body))
	if err != nil {
		return "", err
	}
	return y.WatchURL(id), nil
}

func firstVideoID(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse results: %w", err)
	}

	var id string
	doc.Find(`a[href^="/watch?v="]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		id = u.Query().Get("v")
		return id == ""
	})
	if id != "" {
		return id, nil
	}

	if m := videoIDPattern.FindStringSubmatch(html); m != nil {
		return m[1], nil
	}
	return "", ErrNoVideo
}
