package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telequebec-dl/tqc/internal/models"
)

// pagedServer serves /assets/<slug> and an episode listing of season 100 split
// into pages. failPage, when non-zero, answers that page with a 500.
type pagedServer struct {
	*httptest.Server
	pages    [][]episodeRecord
	failPage int
	requests atomic.Int32
}

func newPagedServer(t *testing.T, pages [][]episodeRecord) *pagedServer {
	t.Helper()
	ps := &pagedServer{pages: pages}
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/32951-simon", func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		_, _ = w.Write([]byte(`{"data":{"asset":{"id":32951,"name":"Simon","seasons":[` +
			`{"id":100,"name":"Saison 1","seasons_number":1},` +
			`{"id":200,"name":"Saison 2","seasons_number":2}]}}}`))
	})
	mux.HandleFunc("/assets/ghost", func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/assets/empty", func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		_, _ = w.Write([]byte(`{"data":{"asset":null}}`))
	})
	mux.HandleFunc("/assets/broken", func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		_, _ = w.Write([]byte(`{"data":`))
	})
	mux.HandleFunc("/tvshow/32951/season/100/episodes", func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			_, _ = fmt.Sscanf(p, "%d", &page)
		}
		if page == ps.failPage {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		body := map[string]any{"data": ps.pages[page-1]}
		if page < len(ps.pages) {
			next := fmt.Sprintf("%s/tvshow/32951/season/100/episodes?page=%d", ps.URL, page+1)
			body["pagination"] = map[string]any{"url": map[string]any{"next": next}}
		} else {
			body["pagination"] = map[string]any{"url": map[string]any{"next": nil}}
		}
		_ = json.NewEncoder(w).Encode(body)
	})
	ps.Server = httptest.NewServer(mux)
	t.Cleanup(ps.Close)
	return ps
}

func records(season int, from, to int) []episodeRecord {
	var out []episodeRecord
	for n := from; n <= to; n++ {
		out = append(out, episodeRecord{
			ID:            int64(9000 + n),
			OriginalName:  fmt.Sprintf("Episode %d", n),
			EpisodeNumber: n,
			SeasonNumber:  season,
			Length:        20 + n,
		})
	}
	return out
}

func TestFetchShow(t *testing.T) {
	srv := newPagedServer(t, nil)
	client := NewClient(srv.URL, srv.Client())

	show, err := client.FetchShow(context.Background(), "32951-simon")
	require.NoError(t, err)
	assert.Equal(t, int64(32951), show.ID)
	assert.Equal(t, "Simon", show.Name)
	assert.Equal(t, []models.Season{
		{ID: 100, Name: "Saison 1", Number: 1},
		{ID: 200, Name: "Saison 2", Number: 2},
	}, show.Seasons)
	assert.EqualValues(t, 1, srv.requests.Load())
}

func TestFetchShowNotFound(t *testing.T) {
	srv := newPagedServer(t, nil)
	client := NewClient(srv.URL, srv.Client())

	for _, slug := range []string{"ghost", "empty"} {
		_, err := client.FetchShow(context.Background(), slug)
		require.Error(t, err, slug)
		assert.True(t, errors.Is(err, ErrNotFound), "slug %s: %v", slug, err)
		assert.Contains(t, err.Error(), slug)
	}
}

func TestFetchShowDecodeFailure(t *testing.T) {
	srv := newPagedServer(t, nil)
	client := NewClient(srv.URL, srv.Client())

	_, err := client.FetchShow(context.Background(), "broken")
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te), "got %T: %v", err, err)
	assert.Equal(t, http.StatusOK, te.Status)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetchShowUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, nil).FetchShow(context.Background(), "32951-simon")
	var te *TransportError
	require.True(t, errors.As(err, &te), "got %T: %v", err, err)
	assert.Zero(t, te.Status)
}

func TestFetchEpisodesFollowsCursor(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]episodeRecord
	}{
		{"single page", [][]episodeRecord{records(1, 1, 3)}},
		{"three pages", [][]episodeRecord{records(1, 1, 2), records(1, 3, 4), records(1, 5, 5)}},
		{"empty middle page", [][]episodeRecord{records(1, 1, 2), {}, records(1, 3, 3)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newPagedServer(t, tc.pages)
			client := NewClient(srv.URL, srv.Client())

			episodes, err := client.FetchEpisodes(context.Background(), 32951, 100)
			require.NoError(t, err)

			var want []models.Episode
			resp := episodesResponse{}
			for _, p := range tc.pages {
				resp.Data = p
				want = append(want, resp.episodes()...)
			}
			assert.Equal(t, want, episodes)
			assert.EqualValues(t, len(tc.pages), srv.requests.Load(), "one request per page")
		})
	}
}

func TestFetchEpisodesFailingPageAborts(t *testing.T) {
	srv := newPagedServer(t, [][]episodeRecord{records(1, 1, 2), records(1, 3, 4), records(1, 5, 6)})
	srv.failPage = 2
	client := NewClient(srv.URL, srv.Client())

	episodes, err := client.FetchEpisodes(context.Background(), 32951, 100)
	require.Error(t, err)
	assert.Nil(t, episodes)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Contains(t, te.URL, "page=2")
	assert.EqualValues(t, 2, srv.requests.Load(), "no request after the failing page")
}

func TestEpisodePagesStopsWhenConsumerBreaks(t *testing.T) {
	srv := newPagedServer(t, [][]episodeRecord{records(1, 1, 2), records(1, 3, 4), records(1, 5, 6)})
	client := NewClient(srv.URL, srv.Client())

	var got []models.Episode
	for page, err := range client.EpisodePages(context.Background(), 32951, 100) {
		require.NoError(t, err)
		got = append(got, page...)
		break
	}
	assert.Len(t, got, 2)
	assert.EqualValues(t, 1, srv.requests.Load())
}

func TestEpisodePagesIsSingleUse(t *testing.T) {
	srv := newPagedServer(t, [][]episodeRecord{records(1, 1, 2), records(1, 3, 4)})
	client := NewClient(srv.URL, srv.Client())
	pages := client.EpisodePages(context.Background(), 32951, 100)

	tests := []struct {
		name     string
		episodes int
	}{
		{"first range walks every page", 4},
		{"second range yields nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []models.Episode
			for page, err := range pages {
				require.NoError(t, err)
				got = append(got, page...)
			}
			assert.Len(t, got, tt.episodes)
			assert.EqualValues(t, 2, srv.requests.Load())
		})
	}
}

func TestEpisodePagesEmptyCursorEndsListing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "tqc/"))
		assert.Equal(t, "320", r.URL.Query().Get("layout_id"))
		assert.Equal(t, "web", r.URL.Query().Get("device_type"))
		_, _ = w.Write([]byte(`{"pagination":{"url":{"next":""}},"data":[` +
			`{"id":9001,"original_name":"Pilot","episode_number":1,"season_number":1,"length":22}]}`))
	}))
	defer srv.Close()

	episodes, err := NewClient(srv.URL+"/", srv.Client()).FetchEpisodes(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.Episode{{ID: 9001, Title: "Pilot", Number: 1, SeasonNumber: 1, Length: 22}}, episodes)
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetchEpisodesCancelledContext(t *testing.T) {
	srv := newPagedServer(t, [][]episodeRecord{records(1, 1, 2)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, srv.Client()).FetchEpisodes(ctx, 32951, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "%v", err)
}
