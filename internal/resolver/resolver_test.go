package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telequebec-dl/tqc/internal/models"
)

// fakeSource serves canned episode lists keyed by season ID and records the
// seasons it was asked for.
type fakeSource struct {
	episodes map[int64][]models.Episode
	fail     map[int64]error
	calls    []int64
}

func (f *fakeSource) FetchEpisodes(_ context.Context, _, seasonID int64) ([]models.Episode, error) {
	f.calls = append(f.calls, seasonID)
	if err := f.fail[seasonID]; err != nil {
		return nil, err
	}
	return f.episodes[seasonID], nil
}

func ep(id int64, season, number int, title string) models.Episode {
	return models.Episode{ID: id, Title: title, Number: number, SeasonNumber: season, Length: 22}
}

// threeSeasons: season 1 has episodes {1,2,3}, season 2 has {1,3}, season 3
// has {2,1} (out of order on purpose).
func threeSeasons() (models.Show, *fakeSource) {
	show := models.Show{
		ID:   32951,
		Name: "Simon",
		Seasons: []models.Season{
			{ID: 100, Name: "Saison 1", Number: 1},
			{ID: 200, Name: "Saison 2", Number: 2},
			{ID: 300, Name: "Saison 3", Number: 3},
		},
	}
	src := &fakeSource{episodes: map[int64][]models.Episode{
		100: {ep(11, 1, 1, "A"), ep(12, 1, 2, "B"), ep(13, 1, 3, "C")},
		200: {ep(21, 2, 1, "D"), ep(23, 2, 3, "E")},
		300: {ep(32, 3, 2, "F"), ep(31, 3, 1, "G")},
	}}
	return show, src
}

func ids(items []models.DownloadItem) []int64 {
	var out []int64
	for _, it := range items {
		out = append(out, it.Episode.ID)
	}
	return out
}

func intp(n int) *int { return &n }

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		season    *int
		episode   *int
		wantIDs   []int64
		wantCalls []int64
	}{
		{"whole show", nil, nil, []int64{11, 12, 13, 21, 23, 32, 31}, []int64{100, 200, 300}},
		{"one season", intp(2), nil, []int64{21, 23}, []int64{200}},
		{"season and episode", intp(3), intp(1), []int64{31}, []int64{300}},
		{"episode across seasons", nil, intp(2), []int64{12, 32}, []int64{100, 200, 300}},
		{"episode in no season", nil, intp(7), nil, []int64{100, 200, 300}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			show, src := threeSeasons()
			items, err := Resolve(context.Background(), src, show, tc.season, tc.episode)
			require.NoError(t, err)
			assert.Equal(t, tc.wantIDs, ids(items))
			assert.Equal(t, tc.wantCalls, src.calls)
		})
	}
}

func TestResolveSeasonNumbersOnItems(t *testing.T) {
	show, src := threeSeasons()
	items, err := Resolve(context.Background(), src, show, nil, intp(1))
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, want := range []int{1, 2, 3} {
		assert.Equal(t, want, items[i].SeasonNumber)
	}
	assert.Equal(t, "S03E01 - G", items[2].Label())
}

func TestResolveSeasonNotFound(t *testing.T) {
	show, src := threeSeasons()
	_, err := Resolve(context.Background(), src, show, intp(9), nil)

	var snf *SeasonNotFoundError
	require.True(t, errors.As(err, &snf), "got %v", err)
	assert.Equal(t, 9, snf.Number)
	assert.Equal(t, "season 9 not found", err.Error())
	assert.Empty(t, src.calls, "no episode listing fetched for a missing season")
}

func TestResolveEpisodeNotFound(t *testing.T) {
	show, src := threeSeasons()
	_, err := Resolve(context.Background(), src, show, intp(2), intp(2))

	var enf *EpisodeNotFoundError
	require.True(t, errors.As(err, &enf), "got %v", err)
	assert.Equal(t, 2, enf.Number)
	assert.Equal(t, 2, enf.SeasonNumber)
	assert.Equal(t, "episode 2 not found in season 2", err.Error())
}

func TestResolveFetchErrorIsFatal(t *testing.T) {
	show, src := threeSeasons()
	boom := errors.New("HTTP 500")
	src.fail = map[int64]error{200: boom}

	items, err := Resolve(context.Background(), src, show, nil, nil)
	assert.Nil(t, items)
	assert.Same(t, boom, err)
	assert.Equal(t, []int64{100, 200}, src.calls, "stops at the failing season")
}
