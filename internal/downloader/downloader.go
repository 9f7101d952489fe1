// Package downloader runs the external downloader once per resolved episode
// and summarizes the batch.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/telequebec-dl/tqc/internal/models"
	"github.com/telequebec-dl/tqc/internal/util"
)

// DefaultPlayerBase serves one stream per episode ID
const DefaultPlayerBase = "https://video.telequebec.tv/player"

// Fetcher downloads one stream to the file described by outputTemplate.
// Failures should be reported as *FailedError.
type Fetcher interface {
	Fetch(ctx context.Context, streamURL, outputTemplate string) error
}

// FailedError is the outcome of a download that did not succeed. ExitCode is
// set when the downloader ran and exited nonzero; otherwise it could not be
// started and Err holds the reason.
type FailedError struct {
	ExitCode int
	Err      error
}

func (e *FailedError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("yt-dlp exited with status: %d", e.ExitCode)
	}
	return fmt.Sprintf("failed to run yt-dlp: %v", e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one item; a nil Err means it was downloaded
type Outcome struct {
	Item models.DownloadItem
	Err  error
}

// Summary accumulates the outcomes of a batch
type Summary struct {
	Total  int
	Failed []Outcome
}

// Succeeded returns the number of items downloaded without error
func (s Summary) Succeeded() int {
	return s.Total - len(s.Failed)
}

func (s Summary) add(o Outcome) Summary {
	s.Total++
	if o.Err != nil {
		s.Failed = append(s.Failed, o)
	}
	return s
}

// Config holds the orchestrator settings
type Config struct {
	PlayerBase string
	OutputDir  string
	Out        io.Writer // progress lines and summary
	ErrOut     io.Writer // per-item failure reasons
}

// Orchestrator downloads resolved items one at a time
type Orchestrator struct {
	fetcher    Fetcher
	playerBase string
	outputDir  string
	out        io.Writer
	errOut     io.Writer

	headerStyle lipgloss.Style
	okStyle     lipgloss.Style
	failStyle   lipgloss.Style
}

// New creates an Orchestrator. Missing writers default to os.Stdout and
// os.Stderr, and an empty player base to DefaultPlayerBase.
func New(fetcher Fetcher, cfg Config) *Orchestrator {
	if cfg.PlayerBase == "" {
		cfg.PlayerBase = DefaultPlayerBase
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}
	outR := lipgloss.NewRenderer(cfg.Out)
	errR := lipgloss.NewRenderer(cfg.ErrOut)
	return &Orchestrator{
		fetcher:     fetcher,
		playerBase:  strings.TrimRight(cfg.PlayerBase, "/"),
		outputDir:   cfg.OutputDir,
		out:         cfg.Out,
		errOut:      cfg.ErrOut,
		headerStyle: outR.NewStyle().Bold(true),
		okStyle:     outR.NewStyle().Foreground(lipgloss.Color("#2ECC71")).Bold(true),
		failStyle:   errR.NewStyle().Foreground(lipgloss.Color("#FFA726")),
	}
}

// StreamURL returns the player URL of an episode
func (o *Orchestrator) StreamURL(ep models.Episode) string {
	return fmt.Sprintf("%s/%d/stream", o.playerBase, ep.ID)
}

// OutputTemplate returns the yt-dlp output template of an item:
// "<show> - SxxEyy - <title>.%(ext)s", under the output directory if one is set.
func (o *Orchestrator) OutputTemplate(show models.Show, item models.DownloadItem) string {
	name := fmt.Sprintf("%s - %s - %s",
		templateLiteral(show.Name), item.Code(), templateLiteral(item.Episode.Title))
	name += ".%(ext)s"
	if o.outputDir == "" || o.outputDir == "." {
		return name
	}
	return filepath.Join(strings.ReplaceAll(o.outputDir, "%", "%%"), name)
}

// templateLiteral makes s a single file name and escapes the % that yt-dlp
// would otherwise read as a template field.
func templateLiteral(s string) string {
	return strings.ReplaceAll(util.SanitizeForFilename(s), "%", "%%")
}

// Run downloads every item in order and returns the folded summary. A failed
// item does not stop the batch. A cancelled context stops it before the next
// item and Run returns the context error with the partial summary.
func (o *Orchestrator) Run(ctx context.Context, show models.Show, items []models.DownloadItem) (Summary, error) {
	if o.outputDir != "" && o.outputDir != "." {
		if err := os.MkdirAll(o.outputDir, 0700); err != nil {
			return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var summary Summary
	total := len(items)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			util.Warn("download interrupted", "remaining", total-i)
			return summary, err
		}

		_, _ = fmt.Fprintf(o.out, "%s %s\n",
			o.headerStyle.Render(fmt.Sprintf("[%d/%d] Downloading:", i+1, total)),
			fmt.Sprintf("%s %s", show.Name, item.Label()))

		streamURL := o.StreamURL(item.Episode)
		timer := util.StartTimer("download")
		err := o.fetcher.Fetch(ctx, streamURL, o.OutputTemplate(show, item))
		timer.Stop()
		if err != nil && ctx.Err() != nil {
			util.Warn("download interrupted", "item", item.Code(), "remaining", total-i)
			return summary, ctx.Err()
		}
		if err != nil {
			o.reportFailure(item, err)
		}
		summary = summary.add(Outcome{Item: item, Err: err})
	}

	o.WriteSummary(summary)
	return summary, nil
}

func (o *Orchestrator) reportFailure(item models.DownloadItem, err error) {
	var failed *FailedError
	if errors.As(err, &failed) {
		util.Debug("download failed", "item", item.Code(), "exit_code", failed.ExitCode, "error", failed.Err)
	}
	_, _ = fmt.Fprintln(o.errOut, o.failStyle.Render(err.Error()))
}

// WriteSummary prints the end-of-batch report
func (o *Orchestrator) WriteSummary(s Summary) {
	_, _ = fmt.Fprintln(o.out)
	if len(s.Failed) == 0 {
		_, _ = fmt.Fprintln(o.out, o.okStyle.Render(fmt.Sprintf("Download complete! %d episodes downloaded.", s.Total)))
		return
	}
	_, _ = fmt.Fprintf(o.out, "Download complete. %d/%d succeeded, %d failed:\n", s.Succeeded(), s.Total, len(s.Failed))
	for _, f := range s.Failed {
		_, _ = fmt.Fprintf(o.out, "  - %s\n", f.Item.Label())
	}
}
