package github

import "time"

// Release models the fields of a GitHub release required to locate
// downloadable assets.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is one downloadable file attached to a release. Values are
// supplied by the API and immutable once obtained.
type Asset struct {
	Name               string    `json:"name"`
	BrowserDownloadURL string    `json:"browser_download_url"`
	Size               int64     `json:"size"`
	ContentType        string    `json:"content_type"`
	UpdatedAt          time.Time `json:"updated_at"`
}
