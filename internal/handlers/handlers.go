// Package handlers implements the tqc commands on top of the catalog client,
// the resolver and the download orchestrator.
package handlers

import (
	"context"
	"io"
	"os"

	"github.com/telequebec-dl/tqc/internal/api"
	"github.com/telequebec-dl/tqc/internal/config"
	"github.com/telequebec-dl/tqc/internal/downloader"
	"github.com/telequebec-dl/tqc/internal/util"
)

// FetcherFactory builds the downloader used for a batch. progressOut is nil
// when no progress bar should be drawn.
type FetcherFactory func(ctx context.Context, cfg *config.Config, progressOut io.Writer) (downloader.Fetcher, error)

// Env carries what a command needs besides its arguments
type Env struct {
	Config      *config.Config
	Stdout      io.Writer
	Stderr      io.Writer
	Interactive bool
	NewFetcher  FetcherFactory
}

// NewEnv returns an Env writing to stdout and stderr. Interactive is set when
// stdout is a terminal.
func NewEnv(cfg *config.Config, stdout, stderr io.Writer) *Env {
	f, ok := stdout.(*os.File)
	return &Env{
		Config:      cfg,
		Stdout:      stdout,
		Stderr:      stderr,
		Interactive: ok && util.IsInteractive(f),
		NewFetcher:  NewYtDlpFetcher,
	}
}

// NewYtDlpFetcher returns the yt-dlp backed fetcher, installing a managed
// yt-dlp first when auto_install is set.
func NewYtDlpFetcher(ctx context.Context, cfg *config.Config, progressOut io.Writer) (downloader.Fetcher, error) {
	y := downloader.NewYtDlp(cfg.Downloader, progressOut)
	if cfg.AutoInstall {
		if err := y.Install(ctx); err != nil {
			return nil, err
		}
	}
	return y, nil
}

func (e *Env) catalog() *api.Client {
	return api.NewClient(e.Config.APIBase, util.NewHTTPClient(e.Config.Timeout))
}
