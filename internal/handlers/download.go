package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/telequebec-dl/tqc/internal/downloader"
	"github.com/telequebec-dl/tqc/internal/resolver"
	"github.com/telequebec-dl/tqc/internal/util"
)

// DownloadRequest selects what to download. Nil numbers mean "all".
type DownloadRequest struct {
	Slug    string
	Season  *int
	Episode *int
	Pick    bool // choose a subset interactively
	Confirm bool // ask before starting
	Yes     bool // never ask
}

// ErrNothingSelected is returned when the picker ends without a selection
var ErrNothingSelected = errors.New("no episode selected")

// HandleDownload resolves the request and downloads the episodes one by one.
// Per-episode failures are reported in the summary and do not make it fail;
// resolution errors do, before anything is downloaded.
func HandleDownload(ctx context.Context, env *Env, req DownloadRequest) error {
	client := env.catalog()

	show, err := client.FetchShow(ctx, req.Slug)
	if err != nil {
		return err
	}

	items, err := resolver.Resolve(ctx, client, show, req.Season, req.Episode)
	if err != nil {
		return err
	}

	if req.Pick && len(items) > 0 {
		if !env.Interactive {
			return errors.New("--pick needs an interactive terminal")
		}
		items, err = pickItems(items)
		if err != nil {
			return err
		}
	}

	if req.Confirm && !req.Yes && len(items) > 0 {
		if !env.Interactive {
			return errors.New("--confirm needs an interactive terminal, pass --yes to skip the prompt")
		}
		ok, err := confirmBatch(show.Name, items)
		if err != nil {
			return err
		}
		if !ok {
			util.Info("download cancelled")
			return nil
		}
	}

	var progressOut io.Writer
	if env.Interactive {
		progressOut = env.Stdout
	}
	fetcher, err := env.NewFetcher(ctx, env.Config, progressOut)
	if err != nil {
		return fmt.Errorf("failed to prepare downloader: %w", err)
	}

	orch := downloader.New(fetcher, downloader.Config{
		PlayerBase: env.Config.PlayerBase,
		OutputDir:  env.Config.OutputDir,
		Out:        env.Stdout,
		ErrOut:     env.Stderr,
	})
	summary, err := orch.Run(ctx, show, items)
	if err != nil {
		return err
	}
	if len(summary.Failed) > 0 {
		util.Warn("some episodes failed", "failed", len(summary.Failed), "total", summary.Total)
	}
	return nil
}
