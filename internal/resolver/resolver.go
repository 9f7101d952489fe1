// Package resolver narrows a show down to the episodes a command acts on.
package resolver

import (
	"context"
	"fmt"

	"github.com/telequebec-dl/tqc/internal/models"
	"github.com/telequebec-dl/tqc/internal/util"
)

// EpisodeSource lists the episodes of one season. *api.Client satisfies it.
type EpisodeSource interface {
	FetchEpisodes(ctx context.Context, showID, seasonID int64) ([]models.Episode, error)
}

// SeasonNotFoundError reports a season number the show does not have
type SeasonNotFoundError struct {
	Number int
}

func (e *SeasonNotFoundError) Error() string {
	return fmt.Sprintf("season %d not found", e.Number)
}

// EpisodeNotFoundError reports an episode number missing from an explicitly
// requested season
type EpisodeNotFoundError struct {
	Number       int
	SeasonNumber int
}

func (e *EpisodeNotFoundError) Error() string {
	return fmt.Sprintf("episode %d not found in season %d", e.Number, e.SeasonNumber)
}

// Resolve returns the download items selected by the optional season and
// episode numbers, in season order then API episode order.
//
// Without a season number every season is considered. An episode number is
// then applied to each season on its own: seasons lacking it are skipped and
// an empty result is not an error. Only an explicit season number turns a
// missing episode into an *EpisodeNotFoundError.
func Resolve(ctx context.Context, source EpisodeSource, show models.Show, seasonNum, episodeNum *int) ([]models.DownloadItem, error) {
	seasons := show.Seasons
	if seasonNum != nil {
		season, ok := show.SeasonByNumber(*seasonNum)
		if !ok {
			return nil, &SeasonNotFoundError{Number: *seasonNum}
		}
		seasons = []models.Season{season}
	}

	var items []models.DownloadItem
	for _, season := range seasons {
		episodes, err := source.FetchEpisodes(ctx, show.ID, season.ID)
		if err != nil {
			return nil, err
		}

		if episodeNum == nil {
			for _, ep := range episodes {
				items = append(items, models.DownloadItem{SeasonNumber: season.Number, Episode: ep})
			}
			continue
		}

		ep, ok := findEpisode(episodes, *episodeNum)
		switch {
		case ok:
			items = append(items, models.DownloadItem{SeasonNumber: season.Number, Episode: ep})
		case seasonNum != nil:
			return nil, &EpisodeNotFoundError{Number: *episodeNum, SeasonNumber: season.Number}
		default:
			util.Debug("season has no such episode, skipping", "season", season.Number, "episode", *episodeNum)
		}
	}

	util.Debug("resolved download items", "show", show.Name, "items", len(items))
	return items, nil
}

func findEpisode(episodes []models.Episode, number int) (models.Episode, bool) {
	for _, ep := range episodes {
		if ep.Number == number {
			return ep, true
		}
	}
	return models.Episode{}, false
}
