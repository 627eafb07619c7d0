package download

import (
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// fileNameFromResponse derives the target filename for a completed GET,
// in priority order: the explicitly provided name, the filename carried
// by the Content-Disposition header, then the last path segment of the
// final request URL. An empty result means no source yielded a name.
func fileNameFromResponse(explicit string, resp *http.Response) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}

	if name := fileNameFromDisposition(resp.Header.Get("Content-Disposition")); name != "" {
		return name
	}

	if resp.Request != nil && resp.Request.URL != nil {
		return fileNameFromURL(resp.Request.URL)
	}

	return ""
}

// fileNameFromDisposition extracts the filename parameter from a
// Content-Disposition header. Any path components are stripped so a
// hostile header cannot point outside the destination folder.
func fileNameFromDisposition(header string) string {
	if header == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}

	name := strings.TrimSpace(params["filename"])
	if name == "" {
		return ""
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// fileNameFromURL takes the last path segment of the final (post-redirect)
// request URL, URL-decoded.
func fileNameFromURL(u *url.URL) string {
	segment := path.Base(u.Path)
	if segment == "." || segment == "/" {
		return ""
	}

	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}

	return strings.TrimSpace(segment)
}
