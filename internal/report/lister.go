// Package report prints the season and episode hierarchy of a show
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/telequebec-dl/tqc/internal/models"
	"github.com/telequebec-dl/tqc/internal/resolver"
	"github.com/telequebec-dl/tqc/internal/util"
)

// Lister writes the listing of a show to out. When interactive is set, the
// provisional "(... episodes)" header is shown as a spinner while a season is
// being fetched; otherwise only the final header is printed, which keeps the
// output identical across runs.
type Lister struct {
	out         io.Writer
	source      resolver.EpisodeSource
	interactive bool

	showStyle   lipgloss.Style
	seasonStyle lipgloss.Style
	codeStyle   lipgloss.Style
}

// NewLister creates a Lister. Styles are rendered for out, so a plain writer
// gets uncolored text.
func NewLister(out io.Writer, source resolver.EpisodeSource, interactive bool) *Lister {
	r := lipgloss.NewRenderer(out)
	return &Lister{
		out:         out,
		source:      source,
		interactive: interactive,
		showStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E5AA8")),
		seasonStyle: r.NewStyle().Bold(true),
		codeStyle:   r.NewStyle().Foreground(lipgloss.Color("#7D7D7D")),
	}
}

// List prints the show header then every season with its episodes, fetching
// one season at a time. The first fetch error aborts the listing.
func (l *Lister) List(ctx context.Context, show models.Show) error {
	l.printf("%s\n", l.showStyle.Render(fmt.Sprintf("Show: %s (ID: %d)", show.Name, show.ID)))

	for _, season := range show.Seasons {
		episodes, err := l.fetch(ctx, show, season)
		if err != nil {
			return err
		}

		l.printf("\n%s\n", l.seasonStyle.Render(SeasonHeader(season, len(episodes))))
		for _, ep := range episodes {
			l.printf("  %s (ID: %d): %s (%d min)\n",
				l.codeStyle.Render(fmt.Sprintf("EP%02d", ep.Number)), ep.ID, ep.Title, ep.Length)
		}
	}
	return nil
}

type fetchResult struct {
	episodes []models.Episode
	err      error
}

// fetch loads one season. Interactive listings run the request on their own
// goroutine and keep the spinner up until it finishes; the result only
// crosses back over the channel, so a spinner returning early on a
// cancelled context never races with the request.
func (l *Lister) fetch(ctx context.Context, show models.Show, season models.Season) ([]models.Episode, error) {
	if !l.interactive {
		return l.source.FetchEpisodes(ctx, show.ID, season.ID)
	}

	results := make(chan fetchResult, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		episodes, err := l.source.FetchEpisodes(ctx, show.ID, season.ID)
		results <- fetchResult{episodes, err}
	}()

	spinErr := spinner.New().
		Title(ProvisionalHeader(season)).
		Type(spinner.Dots).
		Output(l.out).
		Context(ctx).
		Action(func() {
			<-finished
		}).
		Run()
	if spinErr != nil {
		util.Debug("spinner failed", "error", spinErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := <-results
	return res.episodes, res.err
}

func (l *Lister) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}

// ProvisionalHeader is shown while a season's episode count is unknown
func ProvisionalHeader(season models.Season) string {
	return fmt.Sprintf("%s (ID: %d) (... episodes):", season.Name, season.ID)
}

// SeasonHeader is the final header of a season listing
func SeasonHeader(season models.Season, count int) string {
	return fmt.Sprintf("%s (ID: %d) (%d episodes):", season.Name, season.ID, count)
}
