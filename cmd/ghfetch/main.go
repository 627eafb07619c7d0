// Command ghfetch downloads one named asset from a GitHub release into a
// destination folder and prints the resulting local path on stdout. It is
// meant to run as a step inside a larger build pipeline: exit code 0 means
// exactly "an output path was produced".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ghfetch/internal/download"
	"ghfetch/internal/github"
	"ghfetch/internal/history"
	"ghfetch/internal/logger"
	"ghfetch/internal/task"
	"ghfetch/internal/ui"
)

type options struct {
	repoName    string
	assetName   string
	tagName     string
	getLatest   bool
	destFolder  string
	destName    string
	configPath  string
	taskName    string
	pick        bool
	historyPath string
	showHistory bool
	apiBaseURL  string
	token       string
	timeout     time.Duration
	timeoutSet  bool
	verbose     bool
	quiet       bool
}

func main() {
	var opts options

	flag.StringVar(&opts.repoName, "repo", "", "repository as owner/repo")
	flag.StringVar(&opts.assetName, "asset", "", "exact release asset name to download")
	flag.StringVar(&opts.tagName, "tag", "", "release tag (required unless -latest)")
	flag.BoolVar(&opts.getLatest, "latest", false, "select the newest release instead of a tag")
	flag.StringVar(&opts.destFolder, "dest", "", "destination folder (created if missing)")
	flag.StringVar(&opts.destName, "name", "", "override the derived destination filename")
	flag.StringVar(&opts.configPath, "config", "", "YAML task file")
	flag.StringVar(&opts.taskName, "task", "", "task entry name inside the task file")
	flag.BoolVar(&opts.pick, "pick", false, "pick the asset interactively instead of matching a name")
	flag.StringVar(&opts.historyPath, "history", "", "SQLite file recording completed fetches")
	flag.BoolVar(&opts.showHistory, "show-history", false, "list recent fetches and exit")
	flag.StringVar(&opts.apiBaseURL, "api-url", "", "GitHub API base URL override")
	flag.StringVar(&opts.token, "token", "", "bearer token (defaults to GITHUB_TOKEN)")
	flag.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall invocation timeout")
	flag.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	flag.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			opts.timeoutSet = true
		}
	})

	log := logger.NewColoredLogger(logger.WithOutput(os.Stderr))
	if opts.verbose {
		log.SetLevel(logger.LevelDebug)
	}

	if err := run(opts, log); err != nil {
		ui.NewPrinter(os.Stderr).PrintError(err)
		os.Exit(1)
	}
}

func run(opts options, log logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received exit signal, aborting...")
		cancel()
	}()

	var cfg *task.Config
	if opts.configPath != "" {
		loaded, err := task.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	timeout := opts.timeout
	if !opts.timeoutSet && cfg != nil && cfg.Defaults.Timeout > 0 {
		timeout = cfg.Defaults.Timeout
	}
	if timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, timeout)
		defer timeoutCancel()
	}

	if opts.showHistory {
		return showHistory(ctx, opts, cfg)
	}

	params, err := buildParams(opts, cfg)
	if err != nil {
		return err
	}

	client := newClient(opts, cfg)
	fetcher := newDownloader(opts, log)

	var outcome task.Outcome
	if opts.pick {
		outcome, err = runInteractive(ctx, client, fetcher, params, log)
	} else {
		outcome, err = task.NewRunner(client, fetcher, log).Run(ctx, params)
	}
	if err != nil {
		return err
	}

	recordHistory(ctx, opts, cfg, params, outcome, log)

	ui.NewPrinter(os.Stderr).PrintOutcome(outcome)
	fmt.Println(outcome.LocalPath)
	return nil
}

// buildParams assembles the fetch parameters: task-file entry first,
// then flag overrides on top.
func buildParams(opts options, cfg *task.Config) (task.Params, error) {
	var params task.Params

	if cfg != nil {
		entry, ok := cfg.Entry(opts.taskName)
		if !ok {
			return task.Params{}, fmt.Errorf("task %q not found in %s", opts.taskName, opts.configPath)
		}
		params = entry.Params(cfg.Defaults)
	}

	if opts.repoName != "" {
		params.RepoName = opts.repoName
	}
	if opts.assetName != "" {
		params.ReleaseFileName = opts.assetName
	}
	if opts.tagName != "" {
		params.TagName = opts.tagName
	}
	if opts.getLatest {
		params.GetLatest = true
	}
	if opts.destFolder != "" {
		params.DestinationFolder = opts.destFolder
	}
	if opts.destName != "" {
		params.DestinationFileName = opts.destName
	}

	return params, nil
}

func newClient(opts options, cfg *task.Config) *github.Client {
	var clientOpts []github.ClientOption

	apiBaseURL := opts.apiBaseURL
	if apiBaseURL == "" && cfg != nil {
		apiBaseURL = cfg.Defaults.APIBaseURL
	}
	if apiBaseURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(apiBaseURL))
	}

	token := opts.token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token != "" {
		clientOpts = append(clientOpts, github.WithToken(token))
	}

	return github.NewClient(clientOpts...)
}

func newDownloader(opts options, log logger.Logger) *download.Downloader {
	if opts.quiet {
		return download.NewDownloader(log)
	}
	return download.NewDownloader(log,
		download.WithProgressReporter(download.NewConsoleProgressReporter(os.Stderr)))
}

// runInteractive resolves the release first, lets the operator pick an
// asset, then downloads the chosen one.
func runInteractive(ctx context.Context, client *github.Client, fetcher task.Fetcher, params task.Params, log logger.Logger) (task.Outcome, error) {
	// The picker supplies the asset name, so validation only needs a
	// placeholder there.
	probe := params
	probe.ReleaseFileName = "-"
	if err := probe.Validate(); err != nil {
		return task.Outcome{}, err
	}

	owner, repo, err := params.OwnerRepo()
	if err != nil {
		return task.Outcome{}, err
	}

	var release *github.Release
	if params.GetLatest {
		release, err = client.LatestRelease(ctx, owner, repo)
	} else {
		release, err = client.ReleaseByTag(ctx, owner, repo, params.TagName)
	}
	if err != nil {
		return task.Outcome{}, err
	}

	asset, err := ui.PickAsset(release)
	if err != nil {
		return task.Outcome{}, err
	}

	log.Debug("Picked asset %s from %s", asset.Name, release.TagName)

	result, err := fetcher.Fetch(ctx, asset.BrowserDownloadURL, params.DestinationFolder, params.DestinationFileName)
	if err != nil {
		return task.Outcome{}, err
	}

	return task.Outcome{
		LocalPath: result.Path,
		Skipped:   result.Skipped,
		TagName:   release.TagName,
		AssetName: asset.Name,
		Size:      result.Size,
	}, nil
}

func historyPath(opts options, cfg *task.Config) string {
	if opts.historyPath != "" {
		return opts.historyPath
	}
	if cfg != nil {
		return cfg.Defaults.HistoryPath
	}
	return ""
}

// recordHistory appends the outcome to the ledger when one is configured.
// Failures are logged and swallowed: the fetch itself succeeded.
func recordHistory(ctx context.Context, opts options, cfg *task.Config, params task.Params, outcome task.Outcome, log logger.Logger) {
	path := historyPath(opts, cfg)
	if path == "" {
		return
	}

	store, err := history.Open(path)
	if err != nil {
		log.Warn("History unavailable: %v", err)
		return
	}
	defer store.Close()

	if err := store.Bootstrap(ctx); err != nil {
		log.Warn("History unavailable: %v", err)
		return
	}

	rec := history.Record{
		Repo:      params.RepoName,
		Tag:       outcome.TagName,
		Asset:     outcome.AssetName,
		LocalPath: outcome.LocalPath,
		Size:      outcome.Size,
		Skipped:   outcome.Skipped,
	}
	if err := store.Record(ctx, rec); err != nil {
		log.Warn("Failed to record fetch: %v", err)
	}
}

func showHistory(ctx context.Context, opts options, cfg *task.Config) error {
	path := historyPath(opts, cfg)
	if path == "" {
		return fmt.Errorf("no history database configured; pass -history")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Bootstrap(ctx); err != nil {
		return err
	}

	records, err := store.Recent(ctx, 20)
	if err != nil {
		return err
	}

	ui.NewPrinter(os.Stdout).PrintHistory(records)
	return nil
}
