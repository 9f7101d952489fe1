package api

import "github.com/telequebec-dl/tqc/internal/models"

// Wire schemas. Responses are decoded once into these and converted to models
// before leaving the package.

type assetResponse struct {
	Data struct {
		Asset *assetRecord `json:"asset"`
	} `json:"data"`
}

type assetRecord struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Seasons []seasonRecord `json:"seasons"`
}

type seasonRecord struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"seasons_number"`
}

type episodesResponse struct {
	Pagination struct {
		URL struct {
			Next *string `json:"next"`
		} `json:"url"`
	} `json:"pagination"`
	Data []episodeRecord `json:"data"`
}

type episodeRecord struct {
	ID            int64  `json:"id"`
	OriginalName  string `json:"original_name"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	Length        int    `json:"length"`
}

func (a *assetRecord) toShow() models.Show {
	show := models.Show{ID: a.ID, Name: a.Name}
	show.Seasons = make([]models.Season, 0, len(a.Seasons))
	for _, s := range a.Seasons {
		show.Seasons = append(show.Seasons, models.Season{ID: s.ID, Name: s.Name, Number: s.Number})
	}
	return show
}

// nextURL returns the cursor of the following page, or "" on the last page.
// An empty string from the server is treated the same as a missing cursor.
func (r *episodesResponse) nextURL() string {
	if r.Pagination.URL.Next == nil {
		return ""
	}
	return *r.Pagination.URL.Next
}

func (r *episodesResponse) episodes() []models.Episode {
	out := make([]models.Episode, 0, len(r.Data))
	for _, e := range r.Data {
		out = append(out, models.Episode{
			ID:           e.ID,
			Title:        e.OriginalName,
			Number:       e.EpisodeNumber,
			SeasonNumber: e.SeasonNumber,
			Length:       e.Length,
		})
	}
	return out
}
