// Package api is the Télé-Québec catalog client. It resolves show slugs to
// their season list and walks the paginated episode listings.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/telequebec-dl/tqc/internal/models"
	"github.com/telequebec-dl/tqc/internal/util"
	"github.com/telequebec-dl/tqc/internal/version"
)

const (
	// DefaultBaseURL is the Brightcove playback API that backs video.telequebec.tv
	DefaultBaseURL = "https://beacon.playback.api.brightcove.com/telequebec/api"

	deviceQuery = "device_type=web&device_layout=web"
	// layoutID selects the episode grid layout, the only one that returns every field we need
	layoutID = "320"
)

// Client handles interactions with the catalog API
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewClient creates a catalog client rooted at baseURL. A nil httpClient uses
// util.NewHTTPClient with its default timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = util.NewHTTPClient(0)
	}
	return &Client{
		client:    httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "tqc/" + version.Version,
	}
}

// FetchShow returns the show identified by slug together with its seasons.
// A 404 or an empty asset yields an error matching ErrNotFound.
func (c *Client) FetchShow(ctx context.Context, slug string) (models.Show, error) {
	endpoint := fmt.Sprintf("%s/assets/%s?%s", c.baseURL, url.PathEscape(slug), deviceQuery)

	var resp assetResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.Status == http.StatusNotFound {
			return models.Show{}, errors.Wrapf(ErrNotFound, "show %q", slug)
		}
		return models.Show{}, errors.Wrapf(err, "fetch show %q", slug)
	}
	if resp.Data.Asset == nil {
		return models.Show{}, errors.Wrapf(ErrNotFound, "show %q", slug)
	}

	show := resp.Data.Asset.toShow()
	util.Debug("fetched show", "slug", slug, "id", show.ID, "seasons", len(show.Seasons))
	return show, nil
}

// EpisodePages yields the episode listing of one season page by page. It
// follows the next cursor until a response carries none and stops at the
// first failing page, yielding its error. Breaking out of the loop stops
// further requests. The sequence is single-use: ranging over it again yields
// nothing and sends no request.
func (c *Client) EpisodePages(ctx context.Context, showID, seasonID int64) iter.Seq2[[]models.Episode, error] {
	var consumed atomic.Bool
	return func(yield func([]models.Episode, error) bool) {
		if consumed.Swap(true) {
			return
		}
		next := c.firstEpisodesURL(showID, seasonID)
		for page := 1; next != ""; page++ {
			var resp episodesResponse
			if err := c.getJSON(ctx, next, &resp); err != nil {
				yield(nil, errors.Wrapf(err, "episodes page %d", page))
				return
			}
			if !yield(resp.episodes(), nil) {
				return
			}
			next = resp.nextURL()
		}
	}
}

// FetchEpisodes concatenates every page of a season's episode listing in
// response order. Any failing page aborts the whole listing.
func (c *Client) FetchEpisodes(ctx context.Context, showID, seasonID int64) ([]models.Episode, error) {
	var (
		episodes []models.Episode
		pages    int
	)
	for page, err := range c.EpisodePages(ctx, showID, seasonID) {
		if err != nil {
			return nil, errors.Wrapf(err, "season %d", seasonID)
		}
		episodes = append(episodes, page...)
		pages++
	}
	util.Debug("fetched episodes", "show", showID, "season", seasonID, "pages", pages, "episodes", len(episodes))
	return episodes, nil
}

func (c *Client) firstEpisodesURL(showID, seasonID int64) string {
	return fmt.Sprintf("%s/tvshow/%d/season/%d/episodes?%s&layout_id=%s",
		c.baseURL, showID, seasonID, deviceQuery, layoutID)
}

// getJSON performs a GET and decodes the body into out. Every failure is
// reported as a *TransportError.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransportError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	util.Debug("GET", "url", endpoint)
	util.GetPerfTracker().IncrementCounter("catalog requests")
	defer util.StartTimer("catalog GET").Stop()

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{URL: endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			URL:    endpoint,
			Status: resp.StatusCode,
			Err:    errors.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{URL: endpoint, Status: resp.StatusCode, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}
