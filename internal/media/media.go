package media

import (
	"context"
	"errors"
	log "log/slog"
	"net/url"
)

const DefaultSearchURL = "https://www.google.com/search?q="

// Desktop implements the executor's media collaborator.
type Desktop struct {
	browser   *Browser
	youtube   *YouTube
	keys      *Keyboard
	searchURL string
}

func NewDesktop(browser *Browser, youtube *YouTube, keys *Keyboard, searchURL string) (*Desktop, error) {
	if browser == nil {
		return nil, errors.New("media: browser must not be nil")
	}
	if youtube == nil {
		return nil, errors.New("media: youtube must not be nil")
	}
	if keys == nil {
		return nil, errors.New("media: keyboard must not be nil")
	}
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Desktop{browser: browser, youtube: youtube, keys: keys, searchURL: searchURL}, nil
}

// PlayByQuery opens the top video for query, or the results page when no
// video can be resolved.
func (d *Desktop) PlayByQuery(ctx context.Context, query string) error {
	target := d.youtube.ResultsURL(query)
	if query != "" {
		watch, err := d.youtube.FirstVideo(ctx, query)
		if err != nil {
			log.Debug("Falling back to results page", "query", query, "err", err)
		} else {
			target = watch
		}
	}
	log.Debug("Playing", "url", target)
	return d.browser.Open(ctx, target)
}

func (d *Desktop) OpenSite(ctx context.Context, site string) error {
	return d.browser.Open(ctx, site)
}

func (d *Desktop) SendKey(ctx context.Context, key string) error {
	return d.keys.Press(ctx, key)
}

func (d *Desktop) WebSearch(ctx context.Context, query string) error {
	return d.browser.Open(ctx, d.searchURL+url.QueryEscape(query))
}
