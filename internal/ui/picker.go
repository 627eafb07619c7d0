package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	runewidth "github.com/mattn/go-runewidth"

	apperrors "ghfetch/internal/errors"
	"ghfetch/internal/github"
)

// PickAsset prompts the operator to choose one asset from the release.
// Used by the opt-in interactive mode; the default flow requires an
// exact name instead.
func PickAsset(release *github.Release) (github.Asset, error) {
	if release == nil || len(release.Assets) == 0 {
		return github.Asset{}, apperrors.AssetError(apperrors.CodeNoMatchingAsset, "release has no assets to pick from", nil).
			WithModule("ui").
			WithOperation("PickAsset")
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Select an asset of %s", release.TagName),
		Items: formatAssetItems(release.Assets),
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▶ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✔ {{ . | green }}",
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		return github.Asset{}, apperrors.AssetError(apperrors.CodeNoMatchingAsset, "asset selection aborted", err).
			WithModule("ui").
			WithOperation("PickAsset")
	}

	return release.Assets[index], nil
}

// formatAssetItems renders one aligned "name size" row per asset.
func formatAssetItems(assets []github.Asset) []string {
	maxNameWidth := 0
	for _, asset := range assets {
		if width := runewidth.StringWidth(asset.Name); width > maxNameWidth {
			maxNameWidth = width
		}
	}

	items := make([]string, 0, len(assets))
	for _, asset := range assets {
		padding := strings.Repeat(" ", maxNameWidth-runewidth.StringWidth(asset.Name))
		items = append(items, fmt.Sprintf("%s%s  %s", asset.Name, padding, formatSize(asset.Size)))
	}

	return items
}
