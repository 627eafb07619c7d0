// Package task orchestrates one fetch invocation: validate the inputs,
// resolve the release, pick the asset, hand its URL to the downloader.
package task

import (
	"strings"

	apperrors "ghfetch/internal/errors"
)

// Params carries the inputs of a single fetch invocation.
type Params struct {
	// RepoName is the "owner/repo" pair.
	RepoName string

	// ReleaseFileName is the exact asset name to match.
	ReleaseFileName string

	// GetLatest selects the newest release instead of a tag.
	GetLatest bool

	// TagName is the exact release tag; required unless GetLatest is set.
	TagName string

	// DestinationFolder is the directory to write into, created if missing.
	DestinationFolder string

	// DestinationFileName overrides the derived filename when non-empty.
	DestinationFileName string
}

// Validate checks the parameters before any network call is made.
func (p Params) Validate() error {
	if _, _, err := p.OwnerRepo(); err != nil {
		return err
	}

	if strings.TrimSpace(p.ReleaseFileName) == "" {
		return invalidInput("release file name must not be empty")
	}

	if !p.GetLatest && strings.TrimSpace(p.TagName) == "" {
		return invalidInput("tag name is required unless latest is requested")
	}

	if strings.TrimSpace(p.DestinationFolder) == "" {
		return invalidInput("destination folder must not be empty")
	}

	return nil
}

// OwnerRepo splits RepoName on "/" into its owner and repository name.
// Both segments must be non-empty and no further segments may follow.
func (p Params) OwnerRepo() (string, string, error) {
	parts := strings.Split(p.RepoName, "/")
	if len(parts) != 2 {
		return "", "", invalidInput("repository must be specified as owner/repo").
			WithField("repo", p.RepoName)
	}

	owner := strings.TrimSpace(parts[0])
	repo := strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", invalidInput("repository owner and name must both be non-empty").
			WithField("repo", p.RepoName)
	}

	return owner, repo, nil
}

func invalidInput(message string) *apperrors.AppError {
	return apperrors.ValidationError(apperrors.CodeInvalidInput, message, nil).
		WithModule("task").
		WithOperation("Validate")
}
