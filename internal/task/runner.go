package task

import (
	"context"

	"ghfetch/internal/download"
	apperrors "ghfetch/internal/errors"
	"ghfetch/internal/github"
	"ghfetch/internal/logger"
)

// Resolver obtains release metadata from the hosting platform.
type Resolver interface {
	ReleaseByTag(ctx context.Context, owner, repo, tag string) (*github.Release, error)
	LatestRelease(ctx context.Context, owner, repo string) (*github.Release, error)
}

// Fetcher downloads one asset URL into a destination folder.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir, explicitName string) (download.Result, error)
}

// Outcome is the task's sole externally visible result. A produced
// Outcome means the file exists at LocalPath.
type Outcome struct {
	LocalPath string
	Skipped   bool
	TagName   string
	AssetName string
	Size      int64
}

// Runner executes the resolve, select and download steps sequentially.
type Runner struct {
	resolver Resolver
	fetcher  Fetcher
	logger   logger.Logger
}

// NewRunner constructs a Runner.
func NewRunner(resolver Resolver, fetcher Fetcher, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewStandardLogger()
	}
	return &Runner{
		resolver: resolver,
		fetcher:  fetcher,
		logger:   log,
	}
}

// Run performs one fetch invocation. Every failure is terminal for the
// invocation; no step is retried.
func (r *Runner) Run(ctx context.Context, params Params) (Outcome, error) {
	if err := params.Validate(); err != nil {
		return Outcome{}, err
	}

	owner, repo, err := params.OwnerRepo()
	if err != nil {
		return Outcome{}, err
	}

	release, err := r.resolve(ctx, owner, repo, params)
	if err != nil {
		return Outcome{}, err
	}

	asset, err := SelectAsset(release.Assets, params.ReleaseFileName)
	if err != nil {
		return Outcome{}, err
	}

	r.logger.Debug("Resolved %s@%s, downloading asset %s", params.RepoName, release.TagName, asset.Name)

	result, err := r.fetcher.Fetch(ctx, asset.BrowserDownloadURL, params.DestinationFolder, params.DestinationFileName)
	if err != nil {
		return Outcome{}, err
	}

	if result.Skipped {
		r.logger.Success("%s already up to date at %s", asset.Name, result.Path)
	} else {
		r.logger.Success("%s downloaded to %s", asset.Name, result.Path)
	}

	return Outcome{
		LocalPath: result.Path,
		Skipped:   result.Skipped,
		TagName:   release.TagName,
		AssetName: asset.Name,
		Size:      result.Size,
	}, nil
}

func (r *Runner) resolve(ctx context.Context, owner, repo string, params Params) (*github.Release, error) {
	if params.GetLatest {
		r.logger.Debug("Resolving latest release of %s/%s", owner, repo)
		return r.resolver.LatestRelease(ctx, owner, repo)
	}

	r.logger.Debug("Resolving release %s of %s/%s", params.TagName, owner, repo)
	return r.resolver.ReleaseByTag(ctx, owner, repo, params.TagName)
}

// SelectAsset scans the asset list for the first exact, case-sensitive
// name match. First occurrence wins when a release carries duplicates.
func SelectAsset(assets []github.Asset, name string) (github.Asset, error) {
	for _, asset := range assets {
		if asset.Name == name {
			return asset, nil
		}
	}

	return github.Asset{}, apperrors.AssetError(apperrors.CodeNoMatchingAsset, "no asset matches the requested name", nil).
		WithModule("task").
		WithOperation("SelectAsset").
		WithFields(apperrors.Metadata{
			"asset":     name,
			"available": assetNames(assets),
		})
}

func assetNames(assets []github.Asset) []string {
	names := make([]string, len(assets))
	for i, asset := range assets {
		names[i] = asset.Name
	}
	return names
}
