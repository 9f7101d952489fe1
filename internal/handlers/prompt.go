package handlers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/telequebec-dl/tqc/internal/models"
)

// pickItems lets the user choose episodes with a fuzzy finder. The selection
// keeps resolution order whatever order it was made in.
func pickItems(items []models.DownloadItem) ([]models.DownloadItem, error) {
	idx, err := fuzzyfinder.FindMulti(
		items,
		func(i int) string {
			return items[i].Label()
		},
		fuzzyfinder.WithPromptString("Episodes (tab to select): "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(items) {
				return ""
			}
			ep := items[i].Episode
			return fmt.Sprintf("%s\nID: %d\nLength: %d min", items[i].Label(), ep.ID, ep.Length)
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil, ErrNothingSelected
	}
	if err != nil {
		return nil, fmt.Errorf("episode selection failed: %w", err)
	}
	return selectIndexes(items, idx), nil
}

func selectIndexes(items []models.DownloadItem, idx []int) []models.DownloadItem {
	idx = slices.Clone(idx)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	out := make([]models.DownloadItem, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

func confirmBatch(show string, items []models.DownloadItem) (bool, error) {
	var ok bool
	var minutes int
	for _, it := range items {
		minutes += it.Episode.Length
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Download %s of %s?", pluralEpisodes(len(items)), show)).
				Description(fmt.Sprintf("About %s minutes of video, starting with %s",
					humanize.Comma(int64(minutes)), items[0].Label())).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to show confirmation prompt: %w", err)
	}
	return ok, nil
}

func pluralEpisodes(n int) string {
	if n == 1 {
		return "1 episode"
	}
	return humanize.Comma(int64(n)) + " episodes"
}
