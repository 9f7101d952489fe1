package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"

	"github.com/telequebec-dl/tqc/internal/util"
)

// DefaultExecutable is looked up on PATH when no other binary is configured
const DefaultExecutable = "yt-dlp"

// YtDlp is a Fetcher backed by the yt-dlp executable
type YtDlp struct {
	executable string
	progress   io.Writer
}

// NewYtDlp returns a Fetcher running executable. When progressOut is not nil
// a progress bar is drawn on it while a download runs.
func NewYtDlp(executable string, progressOut io.Writer) *YtDlp {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &YtDlp{executable: executable, progress: progressOut}
}

// Install downloads a managed yt-dlp build (or reuses a cached one) and
// switches the fetcher to it.
func (y *YtDlp) Install(ctx context.Context) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	util.Debug("using installed yt-dlp", "path", resolved.Executable)
	y.executable = resolved.Executable
	return nil
}

// Fetch runs yt-dlp -o outputTemplate streamURL and waits for it to exit
func (y *YtDlp) Fetch(ctx context.Context, streamURL, outputTemplate string) error {
	dl := ytdlp.New().
		SetExecutable(y.executable).
		Output(outputTemplate)

	var bar *progressLine
	if y.progress != nil {
		bar = newProgressLine(y.progress)
		dl.ProgressFunc(200*time.Millisecond, bar.update)
	}

	util.Debug("running yt-dlp", "executable", y.executable, "url", streamURL, "output", outputTemplate)
	result, err := dl.Run(ctx, streamURL)
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		return classify(result, err)
	}
	return nil
}

// classify turns a go-ytdlp failure into a *FailedError, separating processes
// that exited nonzero from ones that never started.
func classify(result *ytdlp.Result, err error) *FailedError {
	var exitErr *exec.ExitError
	switch {
	case result != nil && result.ExitCode > 0:
		util.Debug("yt-dlp failed", "exit_code", result.ExitCode)
		return &FailedError{ExitCode: result.ExitCode, Err: err}
	case errors.As(err, &exitErr) && exitErr.ExitCode() > 0:
		return &FailedError{ExitCode: exitErr.ExitCode(), Err: err}
	default:
		return &FailedError{Err: err}
	}
}

// progressLine redraws one terminal line from yt-dlp progress updates. The
// callbacks arrive on go-ytdlp's reader goroutine.
type progressLine struct {
	mu    sync.Mutex
	out   io.Writer
	bar   progress.Model
	drawn bool
}

func newProgressLine(out io.Writer) *progressLine {
	return &progressLine{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *progressLine) update(u ytdlp.ProgressUpdate) {
	if u.Status == ytdlp.ProgressStatusPostProcessing || u.Status == ytdlp.ProgressStatusFinished {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var pct float64
	if u.TotalBytes > 0 {
		pct = float64(u.DownloadedBytes) / float64(u.TotalBytes)
	}
	_, _ = fmt.Fprintf(p.out, "\r%s %s / %s\x1b[K", p.bar.ViewAs(pct),
		humanize.Bytes(uint64(max(u.DownloadedBytes, 0))), humanize.Bytes(uint64(max(u.TotalBytes, 0))))
	p.drawn = true
}

func (p *progressLine) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		_, _ = fmt.Fprintln(p.out)
		p.drawn = false
	}
}
