// Package cli wires the tqc commands into cobra
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/telequebec-dl/tqc/internal/config"
	"github.com/telequebec-dl/tqc/internal/handlers"
	"github.com/telequebec-dl/tqc/internal/util"
	"github.com/telequebec-dl/tqc/internal/version"
)

// Options customise the command tree. Zero values use the process streams
// and the yt-dlp fetcher.
type Options struct {
	Stdout     io.Writer
	Stderr     io.Writer
	NewFetcher handlers.FetcherFactory
}

type app struct {
	opts    Options
	cfgFile string
	env     *handlers.Env
}

// NewRootCmd builds the tqc command tree
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "tqc",
		Short: "List and download shows from Télé-Québec",
		Long: `tqc browses the Télé-Québec catalog and downloads episodes with yt-dlp.

Shows are identified by the slug at the end of their URL on
video.telequebec.tv, for example 32951-simon.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if util.IsDebug {
				util.GetPerfTracker().WriteReport(a.opts.Stderr)
			}
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetHelpFunc(renderHelp)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: <user config dir>/tqc/config.yaml)")
	pf.Bool("debug", false, "enable debug logging and detailed errors")
	pf.String("api-base", "", "catalog API base URL")
	pf.String("player-base", "", "player base URL used to build stream URLs")
	pf.String("downloader", "", "yt-dlp executable")
	pf.Duration("timeout", 30*time.Second, "timeout of each catalog request")
	pf.Bool("auto-install", false, "download a managed yt-dlp build when needed")

	root.AddCommand(a.listCmd(), a.downloadCmd(), a.versionCmd())
	return root
}

// setup loads the configuration and initializes logging for every command
// but version.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	util.SetDebugMode(cfg.Debug)
	util.InitLoggerTo(a.opts.Stderr)
	if cfg.File != "" {
		util.Debug("loaded config", "file", cfg.File)
	}

	a.env = handlers.NewEnv(cfg, a.opts.Stdout, a.opts.Stderr)
	if a.opts.NewFetcher != nil {
		a.env.NewFetcher = a.opts.NewFetcher
	}
	return nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list <show-slug>",
		Short:   "List the seasons and episodes of a show",
		Example: "  tqc list 32951-simon",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.HandleList(cmd.Context(), a.env, args[0])
		},
	}
}

func (a *app) downloadCmd() *cobra.Command {
	var req handlers.DownloadRequest

	cmd := &cobra.Command{
		Use:   "download <show-slug> [season] [episode]",
		Short: "Download a show, one season or one episode",
		Example: `  tqc download 32951-simon          # every season
  tqc download 32951-simon 2        # season 2
  tqc download 32951-simon 2 5      # season 2, episode 5`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Slug = args[0]
			var err error
			if len(args) > 1 {
				if req.Season, err = parseNumber("season", args[1]); err != nil {
					return err
				}
			}
			if len(args) > 2 {
				if req.Episode, err = parseNumber("episode", args[2]); err != nil {
					return err
				}
			}
			return handlers.HandleDownload(cmd.Context(), a.env, req)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&req.Pick, "pick", false, "choose the episodes to download interactively")
	f.BoolVar(&req.Confirm, "confirm", false, "ask for confirmation before starting")
	f.BoolVarP(&req.Yes, "yes", "y", false, "never ask for confirmation")
	f.StringP("output-dir", "o", "", "directory to download into")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version.ShowVersion(cmd.OutOrStdout())
		},
	}
}

// UsageError reports invalid command-line input
type UsageError struct {
	Arg, Value string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid %s number %q: expected a non-negative integer", e.Arg, e.Value)
}

func parseNumber(name, value string) (*int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return nil, &UsageError{Arg: name, Value: value}
	}
	return &n, nil
}

// Execute runs the command tree with args against ctx
func Execute(ctx context.Context, args []string, opts Options) error {
	root := NewRootCmd(opts)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
